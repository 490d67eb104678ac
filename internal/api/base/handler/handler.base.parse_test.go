package basehdl

import (
	"testing"
)

func TestLowerFirst(t *testing.T) {
	cases := map[string]string{
		"":         "",
		"Email":    "email",
		"AgentID":  "agentID",
		"password": "password",
		"X":        "x",
	}
	for input, want := range cases {
		if got := lowerFirst(input); got != want {
			t.Errorf("lowerFirst(%q) = %q, muốn %q", input, got, want)
		}
	}
}
