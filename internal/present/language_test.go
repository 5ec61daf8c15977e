package present

import (
	"testing"

	"golang.org/x/text/language"
)

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		in      string
		want    Language
		wantErr bool
	}{
		{"", Chinese, false},
		{"zh", Chinese, false},
		{" EN ", English, false},
		{"fr", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLanguage(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLanguage(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLanguage(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLanguage_Toggle(t *testing.T) {
	if Chinese.Toggle() != English {
		t.Error("zh should toggle to en")
	}
	if English.Toggle() != Chinese {
		t.Error("en should toggle to zh")
	}
}

func TestLanguage_Tag(t *testing.T) {
	if English.Tag() != language.English {
		t.Errorf("English.Tag() = %v", English.Tag())
	}
	if Chinese.Tag() != language.Chinese {
		t.Errorf("Chinese.Tag() = %v", Chinese.Tag())
	}
}

func TestTranslator_T(t *testing.T) {
	zh := NewTranslator(Chinese)
	en := NewTranslator(English)

	if got := zh.T(KeyChildCount, 3); got != "包含 3 个子技能" {
		t.Errorf("zh childCount = %q", got)
	}
	if got := en.T(KeyChildCount, 3); got != "Contains 3 sub-skills" {
		t.Errorf("en childCount = %q", got)
	}
	if got := en.T(KeyNoDescription); got != "No description" {
		t.Errorf("en noDescription = %q", got)
	}
}

func TestTranslator_UnknownKeyFallsBackToKey(t *testing.T) {
	if got := NewTranslator(English).T("doesNotExist"); got != "doesNotExist" {
		t.Errorf("T(unknown) = %q, want the key", got)
	}
}

func TestTranslationTablesHaveSameKeys(t *testing.T) {
	zh := translations[language.Chinese]
	en := translations[language.English]
	for k := range zh {
		if _, ok := en[k]; !ok {
			t.Errorf("key %q missing from en table", k)
		}
	}
	for k := range en {
		if _, ok := zh[k]; !ok {
			t.Errorf("key %q missing from zh table", k)
		}
	}
}
