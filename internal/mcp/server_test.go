package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/labsmc/wikigpt/internal/log"
	"github.com/labsmc/wikigpt/internal/rag"
)

type fakeQuery struct{}

func (fakeQuery) Run(context.Context, string) (rag.Answer, error) {
	return rag.Answer{Text: "ok"}, nil
}

func TestNewServer(t *testing.T) {
	s, err := NewServer(Config{
		Name:    "wikigpt",
		Version: "test",
		Query:   fakeQuery{},
		Logger:  log.NewNop(),
	})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if s == nil {
		t.Fatal("NewServer returned nil server")
	}
}

func TestNewServer_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"missing name", Config{Version: "v", Query: fakeQuery{}}, "name"},
		{"missing version", Config{Name: "n", Query: fakeQuery{}}, "version"},
		{"missing query", Config{Name: "n", Version: "v"}, "query"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewServer(tt.cfg)
			if err == nil {
				t.Fatal("NewServer succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}
