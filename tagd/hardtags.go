package tagd

import (
	"strings"

	"github.com/musetronstar/tagd/tagd/rank"
)

// Hard tags are seeded at schema creation and can never be put or deleted.
// Every id beginning with '_' is reserved for them.
const (
	HardEntity = "_entity"

	HardSuper    = "_super"
	HardIsA      = "_is_a"
	HardTypeOf   = "_type_of"
	HardReferent = "_referent"
	HardRelator  = "_relator"
	HardHas      = "_has"
	HardCan      = "_can"
	HardRefers   = "_refers"
	HardRefersTo = "_refers_to"
	HardContext  = "_context"
	HardCausedBy = "_caused_by"

	HardInterrogator = "_interrogator"
	HardError        = "_error"
	HardMessage      = "_message"
	HardUnknownTag   = "_unknown_tag"
	HardBadToken     = "_bad_token"

	HardURL       = "_url"
	HardURLPart   = "_url_part"
	HardHost      = "_host"
	HardPrivLabel = "_private"
	HardPub       = "_pub"
	HardSub       = "_sub"
	HardPath      = "_path"
	HardQuery     = "_query"
	HardFragment  = "_fragment"
	HardPort      = "_port"
	HardUser      = "_user"
	HardPass      = "_pass"
	HardScheme    = "_scheme"

	// HardTerms as the object of a query predicate requests a full text search
	// over tag content, the modifier holding the search terms.
	HardTerms = "_terms"
)

// HardTag describes one seeded tag.
type HardTag struct {
	ID          string
	SubRelator  string
	SuperObject string
	POS         POS
	Rank        rank.Rank
}

var hardTags = []HardTag{
	{HardEntity, HardIsA, HardEntity, POSTag, rank.MustNew()},

	{HardSuper, HardTypeOf, HardEntity, POSSubRelator, rank.MustNew(1)},
	{HardIsA, HardTypeOf, HardSuper, POSSubRelator, rank.MustNew(1, 1)},
	{HardTypeOf, HardTypeOf, HardSuper, POSSubRelator, rank.MustNew(1, 2)},
	{HardReferent, HardTypeOf, HardSuper, POSReferent, rank.MustNew(1, 3)},

	{HardRelator, HardTypeOf, HardEntity, POSRelator, rank.MustNew(2)},
	{HardHas, HardTypeOf, HardRelator, POSRelator, rank.MustNew(2, 1)},
	{HardCan, HardTypeOf, HardRelator, POSRelator, rank.MustNew(2, 2)},
	{HardRefers, HardTypeOf, HardRelator, POSRefers, rank.MustNew(2, 3)},
	{HardRefersTo, HardTypeOf, HardRelator, POSRefersTo, rank.MustNew(2, 4)},
	{HardContext, HardTypeOf, HardRelator, POSContext, rank.MustNew(2, 5)},
	{HardCausedBy, HardTypeOf, HardRelator, POSRelator, rank.MustNew(2, 6)},

	{HardInterrogator, HardTypeOf, HardEntity, POSInterrogator, rank.MustNew(3)},
	{HardError, HardIsA, HardEntity, POSTag, rank.MustNew(4)},
	{HardMessage, HardIsA, HardEntity, POSTag, rank.MustNew(5)},
	{HardUnknownTag, HardIsA, HardEntity, POSTag, rank.MustNew(6)},
	{HardBadToken, HardIsA, HardEntity, POSTag, rank.MustNew(7)},

	{HardURL, HardIsA, HardEntity, POSTag, rank.MustNew(8)},
	{HardURLPart, HardIsA, HardEntity, POSTag, rank.MustNew(9)},
	{HardHost, HardIsA, HardURLPart, POSTag, rank.MustNew(9, 1)},
	{HardPrivLabel, HardIsA, HardURLPart, POSTag, rank.MustNew(9, 2)},
	{HardPub, HardIsA, HardURLPart, POSTag, rank.MustNew(9, 3)},
	{HardSub, HardIsA, HardURLPart, POSTag, rank.MustNew(9, 4)},
	{HardPath, HardIsA, HardURLPart, POSTag, rank.MustNew(9, 5)},
	{HardQuery, HardIsA, HardURLPart, POSTag, rank.MustNew(9, 6)},
	{HardFragment, HardIsA, HardURLPart, POSTag, rank.MustNew(9, 7)},
	{HardPort, HardIsA, HardURLPart, POSTag, rank.MustNew(9, 8)},
	{HardUser, HardIsA, HardURLPart, POSTag, rank.MustNew(9, 9)},
	{HardPass, HardIsA, HardURLPart, POSTag, rank.MustNew(9, 10)},
	{HardScheme, HardIsA, HardURLPart, POSTag, rank.MustNew(9, 11)},

	{HardTerms, HardIsA, HardEntity, POSTag, rank.MustNew(10)},
}

var hardTagIndex map[string]int

func init() {
	hardTagIndex = make(map[string]int, len(hardTags))
	for i, h := range hardTags {
		hardTagIndex[h.ID] = i
	}
}

// HardTags returns every hard tag in rank order.
func HardTags() []HardTag {
	out := make([]HardTag, len(hardTags))
	copy(out, hardTags)
	return out
}

// LookupHardTag returns the seeded definition of id.
func LookupHardTag(id string) (HardTag, bool) {
	i, ok := hardTagIndex[id]
	if !ok {
		return HardTag{}, false
	}
	return hardTags[i], true
}

// IsHardTag reports whether id is one of the seeded tags.
func IsHardTag(id string) bool {
	_, ok := hardTagIndex[id]
	return ok
}

// IsReserved reports whether id uses the prefix reserved for hard tags.
func IsReserved(id string) bool {
	return strings.HasPrefix(id, "_")
}

// Tag returns the hard tag as a Tag value.
func (h HardTag) Tag() *Tag {
	return &Tag{
		ID:          h.ID,
		SubRelator:  h.SubRelator,
		SuperObject: h.SuperObject,
		POS:         h.POS,
		Rank:        h.Rank,
	}
}
