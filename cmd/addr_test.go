package cmd

import "testing"

func TestValidateAddr(t *testing.T) {
	valid := []string{
		"127.0.0.1:8080",
		"localhost:3000",
		":8080",
		"0.0.0.0:0",
	}
	for _, addr := range valid {
		if err := validateAddr(addr); err != nil {
			t.Errorf("validateAddr(%q) = %v, want nil", addr, err)
		}
	}

	invalid := []string{
		"",
		"8080",
		"127.0.0.1",
		"127.0.0.1:",
		"127.0.0.1:http",
		"127.0.0.1:70000",
		"bad host:8080",
	}
	for _, addr := range invalid {
		if err := validateAddr(addr); err == nil {
			t.Errorf("validateAddr(%q) = nil, want error", addr)
		}
	}
}
