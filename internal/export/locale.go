package export

import (
	"os"
	"strings"

	"golang.org/x/text/language"
)

// Layout is a pair of time.Format layouts for the Date and Time columns.
type Layout struct {
	Tag  language.Tag
	Date string
	Time string
}

var layouts = []Layout{
	{Tag: language.AmericanEnglish, Date: "1/2/2006", Time: "3:04:05 PM"},
	{Tag: language.Japanese, Date: "2006/1/2", Time: "15:04:05"},
	{Tag: language.BritishEnglish, Date: "02/01/2006", Time: "15:04:05"},
	{Tag: language.German, Date: "2.1.2006", Time: "15:04:05"},
	{Tag: language.French, Date: "02/01/2006", Time: "15:04:05"},
	{Tag: language.SimplifiedChinese, Date: "2006/1/2", Time: "15:04:05"},
	{Tag: language.Korean, Date: "2006. 1. 2.", Time: "PM 3:04:05"},
}

var matcher = func() language.Matcher {
	tags := make([]language.Tag, len(layouts))
	for i, l := range layouts {
		tags[i] = l.Tag
	}
	return language.NewMatcher(tags)
}()

// LayoutFor resolves a locale name such as "ja-JP" or "de_DE.UTF-8" to the
// closest supported layout. Unknown or empty names fall back to en-US.
func LayoutFor(name string) Layout {
	name = normalizeLocale(name)
	if name == "" {
		return layouts[0]
	}
	tag, err := language.Parse(name)
	if err != nil {
		return layouts[0]
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return layouts[0]
	}
	return layouts[idx]
}

// EnvLocale returns the first locale set in LC_ALL, LC_TIME or LANG.
func EnvLocale() string {
	for _, key := range []string{"LC_ALL", "LC_TIME", "LANG"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

// normalizeLocale turns POSIX names ("ja_JP.UTF-8@x") into BCP 47 ("ja-JP").
func normalizeLocale(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.IndexAny(name, ".@"); i >= 0 {
		name = name[:i]
	}
	if name == "C" || name == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(name, "_", "-")
}
