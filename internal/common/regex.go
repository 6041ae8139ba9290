package common

import (
	"regexp"
	"sync"
)

var regexCache sync.Map // pattern -> *regexp.Regexp

// MatchRegex reports whether text matches pattern.
// Compiled patterns are cached; an invalid pattern returns its compile error.
func MatchRegex(pattern, text string) (bool, error) {
	if cached, ok := regexCache.Load(pattern); ok {
		return cached.(*regexp.Regexp).MatchString(text), nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, err
	}
	regexCache.Store(pattern, re)
	return re.MatchString(text), nil
}
