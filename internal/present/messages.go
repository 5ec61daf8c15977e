// pattern: Functional Core

package present

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys understood by Translator.T.
const (
	KeyTitle         = "headerTitle"
	KeyTotalSkills   = "totalSkills"
	KeyNoSkills      = "noSkills"
	KeyNoDescription = "noDescription"
	KeyChildSkills   = "childSkills"
	KeyChildCount    = "childCount"
	KeyTimes         = "times"
	KeyRefresh       = "refresh"
	KeyLoading       = "loading"
	KeyError         = "error"
	KeyUsed          = "used"
	KeyLastUsed      = "lastUsed"
	KeyPath          = "path"
	KeyFilter        = "filter"
)

var translations = map[language.Tag]map[string]string{
	language.Chinese: {
		KeyTitle:         "技能目录",
		KeyTotalSkills:   "共 %d 个技能",
		KeyNoSkills:      "未找到任何技能",
		KeyNoDescription: "暂无描述",
		KeyChildSkills:   "子技能",
		KeyChildCount:    "包含 %d 个子技能",
		KeyTimes:         "%d 次",
		KeyRefresh:       "刷新",
		KeyLoading:       "加载中...",
		KeyError:         "出错了",
		KeyUsed:          "使用次数",
		KeyLastUsed:      "最近使用",
		KeyPath:          "路径",
		KeyFilter:        "搜索",
	},
	language.English: {
		KeyTitle:         "Skill Catalog",
		KeyTotalSkills:   "%d skills",
		KeyNoSkills:      "No skills found",
		KeyNoDescription: "No description",
		KeyChildSkills:   "Sub-skills",
		KeyChildCount:    "Contains %d sub-skills",
		KeyTimes:         "%d times",
		KeyRefresh:       "Refresh",
		KeyLoading:       "Loading...",
		KeyError:         "Something went wrong",
		KeyUsed:          "Used",
		KeyLastUsed:      "Last used",
		KeyPath:          "Path",
		KeyFilter:        "Search",
	},
}

var messages = buildCatalog()

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.Chinese))
	for tag, table := range translations {
		for key, msg := range table {
			if err := b.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
	return b
}

// Translator renders message keys in one language. Unknown keys render as
// the key itself.
type Translator struct {
	lang    Language
	printer *message.Printer
}

// NewTranslator returns a Translator for lang.
func NewTranslator(lang Language) *Translator {
	return &Translator{
		lang:    lang,
		printer: message.NewPrinter(lang.Tag(), message.Catalog(messages)),
	}
}

// Language returns the translator's language.
func (t *Translator) Language() Language {
	return t.lang
}

// T returns the translation for key, formatted with args.
func (t *Translator) T(key string, args ...any) string {
	return t.printer.Sprintf(key, args...)
}
