package options

import (
	"reflect"
	"testing"
)

func newTestResolver(t *testing.T, global string, opts map[string]string) *Resolver {
	t.Helper()
	if _, ok := opts[DefaultsKey]; !ok {
		opts[DefaultsKey] = ""
	}
	r, err := NewResolver(global, opts)
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	return r
}

func TestResolvePrefersDeepestKey(t *testing.T) {
	r := newTestResolver(t, "--burn-subtitle scan", map[string]string{
		"quality/any":   "--preset fast",
		"quality/1080p": "--1080p",
	})

	got := r.Resolve("quality/1080p/input/movie.mkv")
	if got.Key != "quality/1080p" {
		t.Fatalf("expected quality/1080p, got %q", got.Key)
	}
	want := []string{"--burn-subtitle", "scan", "--1080p"}
	if !reflect.DeepEqual(got.Args, want) {
		t.Fatalf("expected args %v, got %v", want, got.Args)
	}
}

func TestResolveFallsBackToDefaults(t *testing.T) {
	r := newTestResolver(t, "--burn-subtitle scan", map[string]string{
		DefaultsKey:  "--preset medium",
		"quality/hd": "--1080p",
	})

	got := r.Resolve("misc/input/clip.mp4")
	if got.Key != DefaultsKey {
		t.Fatalf("expected defaults key, got %q", got.Key)
	}
	want := []string{"--burn-subtitle", "scan", "--preset", "medium"}
	if !reflect.DeepEqual(got.Args, want) {
		t.Fatalf("expected args %v, got %v", want, got.Args)
	}
}

func TestResolveMatchesOnSegmentBoundary(t *testing.T) {
	r := newTestResolver(t, "", map[string]string{
		"quality/720p": "--720p",
	})

	got := r.Resolve("quality/720p-extras/input/clip.mkv")
	if got.Key != DefaultsKey {
		t.Fatalf("expected defaults for non-boundary prefix, got %q", got.Key)
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	r := newTestResolver(t, "-g", map[string]string{
		"a/b": "--ab",
		"a":   "--a",
	})
	first := r.Resolve("a/b/input/x.mkv")
	for i := 0; i < 10; i++ {
		again := r.Resolve("a/b/input/x.mkv")
		if again.Key != first.Key || !reflect.DeepEqual(again.Args, first.Args) {
			t.Fatalf("resolution not deterministic: %v vs %v", first, again)
		}
	}
	if first.Key != "a/b" {
		t.Fatalf("expected deeper key a/b, got %q", first.Key)
	}
}

func TestEmptyDefaultsUsesGlobalArgsAlone(t *testing.T) {
	r := newTestResolver(t, "--burn-subtitle scan", map[string]string{})
	got := r.Resolve("whatever/input/file.mkv")
	want := []string{"--burn-subtitle", "scan"}
	if !reflect.DeepEqual(got.Args, want) {
		t.Fatalf("expected global args alone, got %v", got.Args)
	}
}

func TestNewResolverRequiresDefaults(t *testing.T) {
	if _, err := NewResolver("", map[string]string{"a": ""}); err == nil {
		t.Fatal("expected error when defaults entry is missing")
	}
}

func TestSplitArgs(t *testing.T) {
	cases := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{"--720p --preset slower", []string{"--720p", "--preset", "slower"}},
		{`--add-audio 2="Director Commentary"`, []string{"--add-audio", "2=Director Commentary"}},
		{"  spaced   out  ", []string{"spaced", "out"}},
		{`'single quoted arg' plain`, []string{"single quoted arg", "plain"}},
	}
	for _, tc := range cases {
		got, err := SplitArgs(tc.raw)
		if err != nil {
			t.Fatalf("split %q: %v", tc.raw, err)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("split %q: expected %v, got %v", tc.raw, tc.want, got)
		}
	}
}

func TestSplitArgsRejectsUnterminatedQuote(t *testing.T) {
	if _, err := SplitArgs(`--title "unfinished`); err == nil {
		t.Fatal("expected error for unterminated quote")
	}
}
