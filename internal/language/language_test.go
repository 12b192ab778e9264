package language

import "testing"

func TestToISO2(t *testing.T) {
	cases := map[string]string{
		"eng":     "en",
		"en":      "en",
		"English": "en",
		"fre":     "fr",
		"fra":     "fr",
		"":        "",
		"xx":      "xx",
		"unknown": "",
	}
	for in, want := range cases {
		if got := ToISO2(in); got != want {
			t.Fatalf("ToISO2(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName("fra"); got != "French" {
		t.Fatalf("expected French, got %q", got)
	}
	if got := DisplayName(""); got != "Unknown" {
		t.Fatalf("expected Unknown, got %q", got)
	}
	if got := DisplayName("xx"); got != "Xx" {
		t.Fatalf("expected title-cased passthrough, got %q", got)
	}
}

func TestExtractFromTags(t *testing.T) {
	if got := ExtractFromTags(map[string]string{"language": "ENG"}); got != "eng" {
		t.Fatalf("expected eng, got %q", got)
	}
	if got := ExtractFromTags(map[string]string{"language_ietf": "fr-CA"}); got != "fr" {
		t.Fatalf("expected fr from IETF tag, got %q", got)
	}
	if got := ExtractFromTags(map[string]string{"language": " en "}); got != "en" {
		t.Fatalf("expected spaces stripped, got %q", got)
	}
	if got := ExtractFromTags(nil); got != "" {
		t.Fatalf("expected empty for nil tags, got %q", got)
	}
}

func TestFromTitle(t *testing.T) {
	cases := map[string]string{
		"French (Canada)":        "fr",
		"Director Commentary":    "",
		"Japanese 5.1":           "ja",
		"Commentaire en span...": "",
		"Espanol Latino":         "es",
		"":                       "",
	}
	for in, want := range cases {
		if got := FromTitle(in); got != want {
			t.Fatalf("FromTitle(%q) = %q, want %q", in, got, want)
		}
	}
}
