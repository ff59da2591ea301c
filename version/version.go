package version

import (
	"fmt"
	"strings"
)

const (
	major uint = 0
	minor uint = 1
	patch uint = 0
)

// appBuild can be set at link time with
// '-ldflags "-X github.com/cashtokens/cashtokend/version.appBuild=foo"'.
// It may only contain characters from buildCharacters, otherwise it is
// dropped from the version string.
var appBuild string

const buildCharacters = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-"

var memoized string

// Version returns the application version, with build metadata appended
// when it was provided at link time.
func Version() string {
	if memoized == "" {
		memoized = fmt.Sprintf("%d.%d.%d", major, minor, patch)
		if appBuild != "" && isValidBuild(appBuild) {
			memoized = fmt.Sprintf("%s-%s", memoized, appBuild)
		}
	}
	return memoized
}

func isValidBuild(build string) bool {
	for _, r := range build {
		if !strings.ContainsRune(buildCharacters, r) {
			return false
		}
	}
	return true
}
