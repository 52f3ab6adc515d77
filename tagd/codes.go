package tagd

import (
	"github.com/musetronstar/tagd/errors"
)

// Code is the outcome of a tagd operation.
type Code int

const (
	OK Code = iota

	TagUnknown
	TagDuplicate
	TagIllegal

	RankErr
	RankEmpty
	RankMaxValue
	RankMaxLen

	URLEmpty
	URLMaxLen
	URLErrScheme
	URLErrHost
	URLErrPort
	URLErrPath
	URLErrUser

	TLDErr
	TLDMaxLen

	TSNotFound
	TSDuplicate
	TSSuperUnk
	TSSubjectUnk
	TSRelatorUnk
	TSObjectUnk
	TSRefersUnk
	TSRefersToUnk
	TSContextUnk
	TSAmbiguous
	TSForeignKey
	TSErrMaxTagLen
	TSErr
	TSMisuse
	TSInternalErr
)

// MaxTagLen is the longest id the store accepts.
const MaxTagLen = 2112

var codeNames = map[Code]string{
	OK:             "TAGD_OK",
	TagUnknown:     "TAG_UNKNOWN",
	TagDuplicate:   "TAG_DUPLICATE",
	TagIllegal:     "TAG_ILLEGAL",
	RankErr:        "RANK_ERR",
	RankEmpty:      "RANK_EMPTY",
	RankMaxValue:   "RANK_MAX_VALUE",
	RankMaxLen:     "RANK_MAX_LEN",
	URLEmpty:       "URL_EMPTY",
	URLMaxLen:      "URL_MAX_LEN",
	URLErrScheme:   "URL_ERR_SCHEME",
	URLErrHost:     "URL_ERR_HOST",
	URLErrPort:     "URL_ERR_PORT",
	URLErrPath:     "URL_ERR_PATH",
	URLErrUser:     "URL_ERR_USER",
	TLDErr:         "TLD_ERR",
	TLDMaxLen:      "TLD_MAX_LEN",
	TSNotFound:     "TS_NOT_FOUND",
	TSDuplicate:    "TS_DUPLICATE",
	TSSuperUnk:     "TS_SUPER_UNK",
	TSSubjectUnk:   "TS_SUBJECT_UNK",
	TSRelatorUnk:   "TS_RELATOR_UNK",
	TSObjectUnk:    "TS_OBJECT_UNK",
	TSRefersUnk:    "TS_REFERS_UNK",
	TSRefersToUnk:  "TS_REFERS_TO_UNK",
	TSContextUnk:   "TS_CONTEXT_UNK",
	TSAmbiguous:    "TS_AMBIGUOUS",
	TSForeignKey:   "TS_FOREIGN_KEY",
	TSErrMaxTagLen: "TS_ERR_MAX_TAG_LEN",
	TSErr:          "TS_ERR",
	TSMisuse:       "TS_MISUSE",
	TSInternalErr:  "TS_INTERNAL_ERR",
}

var codesByName map[string]Code

func init() {
	codesByName = make(map[string]Code, len(codeNames))
	for c, name := range codeNames {
		codesByName[name] = c
	}
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "TAGD_CODE_UNKNOWN"
}

// ParseCode is the inverse of Code.String.
func ParseCode(name string) (Code, bool) {
	c, ok := codesByName[name]
	return c, ok
}

// Kind returns the sentinel error of the code's category, or nil for OK.
func (c Code) Kind() error {
	switch c {
	case OK:
		return nil
	case TSNotFound, TagUnknown:
		return errors.ErrNotFound
	case TSDuplicate, TagDuplicate:
		return errors.ErrDuplicate
	case TSSuperUnk, TSSubjectUnk, TSRelatorUnk, TSObjectUnk, TSRefersUnk, TSRefersToUnk, TSContextUnk:
		return errors.ErrUnknownReference
	case TSMisuse:
		return errors.ErrMisuse
	case TSAmbiguous:
		return errors.ErrAmbiguous
	case TSForeignKey:
		return errors.ErrDependency
	case RankErr, RankEmpty, RankMaxValue, RankMaxLen:
		return errors.ErrRank
	case URLEmpty, URLMaxLen, URLErrScheme, URLErrHost, URLErrPort, URLErrPath, URLErrUser, TLDErr, TLDMaxLen:
		return errors.ErrURL
	case TSInternalErr:
		return errors.ErrInternal
	default:
		return errors.ErrInvalidRequest
	}
}

// Severity orders codes for the "most severe so far" summary of an Errorable.
// Outcomes a caller routinely expects (duplicate, not found) rank below
// integrity and usage errors, and backing store failures rank highest.
func (c Code) Severity() int {
	switch c {
	case OK:
		return 0
	case TSDuplicate, TagDuplicate:
		return 1
	case TSNotFound, TagUnknown:
		return 2
	case TSInternalErr:
		return 4
	default:
		return 3
	}
}
