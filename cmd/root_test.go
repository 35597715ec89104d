package cmd

import "testing"

func TestCheckRequiredEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	if err := checkRequiredEnv(); err == nil {
		t.Error("expected an error with GEMINI_API_KEY unset")
	}

	t.Setenv("GEMINI_API_KEY", "test-key")
	if err := checkRequiredEnv(); err != nil {
		t.Errorf("checkRequiredEnv with key set: %v", err)
	}
}
