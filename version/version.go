// Package version reports how the tagd binary was built.
package version

import (
	"fmt"
	"runtime"

	"github.com/Masterminds/semver/v3"
)

// Set at link time:
//
//	go build -ldflags "-X github.com/musetronstar/tagd/version.Version=0.4.0 \
//	  -X github.com/musetronstar/tagd/version.Commit=$(git rev-parse HEAD)"
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info describes the running binary
type Info struct {
	Version  string `json:"version"`
	Commit   string `json:"commit"`
	Date     string `json:"date"`
	Go       string `json:"go"`
	Platform string `json:"platform"`
}

func Get() Info {
	return Info{
		Version:  Version,
		Commit:   Commit,
		Date:     Date,
		Go:       runtime.Version(),
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// Semver parses Version. Development builds have none.
func (i Info) Semver() (*semver.Version, bool) {
	v, err := semver.NewVersion(i.Version)
	if err != nil {
		return nil, false
	}
	return v, true
}

// ShortCommit is the first seven characters of the commit hash
func (i Info) ShortCommit() string {
	if len(i.Commit) > 7 {
		return i.Commit[:7]
	}
	return i.Commit
}

func (i Info) String() string {
	name := "dev"
	if v, ok := i.Semver(); ok {
		name = "v" + v.String()
	}
	return fmt.Sprintf("tagd %s (%s, %s)", name, i.ShortCommit(), i.Date)
}
