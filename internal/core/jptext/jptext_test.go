package jptext

import "testing"

func TestFold(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name, in, want string
	}{
		{"empty", "", ""},
		{"trim", "  防災  ", "防災"},
		{"fullwidth ascii", "ＤＸ推進", "dx推進"},
		{"case fold", "AI Chatbot", "ai chatbot"},
		{"fullwidth digits", "２０２５年度", "2025年度"},
		{"halfwidth kana", "ｼｽﾃﾑ更新", "システム更新"},
		{"space runs", "introduce\t\tnew   system", "introduce new system"},
		{"newlines collapse", "line one\n\nline two", "line one line two"},
		{"invalid utf8 dropped", "ab\xffcd", "abcd"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			if got := Fold(c.in); got != c.want {
				t.Fatalf("Fold(%q)=%q want %q", c.in, got, c.want)
			}
		})
	}
}

func TestFold_Idempotent(t *testing.T) {
	t.Parallel()

	in := "ＡＩチャットボット導入  about ｺｽﾄ削減"
	once := Fold(in)
	if twice := Fold(once); twice != once {
		t.Fatalf("fold not idempotent: %q -> %q", once, twice)
	}
}
