package grpc

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
)

var rpcPattern = regexp.MustCompile(`rpc\s+(\w+)\s*\(\s*(stream\s+)?[\w.]+\s*\)\s*returns\s*\(\s*(stream\s+)?[\w.]+\s*\)`)

func TestMediaServiceDesc_MatchesProto(t *testing.T) {
	protoPath := filepath.Join("..", "..", MediaServiceDesc.Metadata.(string))
	src, err := os.ReadFile(protoPath)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", protoPath, err)
	}

	if !regexp.MustCompile(`package\s+reelfetch\.v1;`).Match(src) || !regexp.MustCompile(`service\s+MediaService\s*\{`).Match(src) {
		t.Fatalf("Expected %s to declare %s", protoPath, ServiceName)
	}

	type rpc struct{ clientStreams, serverStreams bool }
	declared := map[string]rpc{}
	for _, m := range rpcPattern.FindAllSubmatch(src, -1) {
		declared[string(m[1])] = rpc{clientStreams: len(m[2]) > 0, serverStreams: len(m[3]) > 0}
	}

	registered := map[string]rpc{}
	for _, m := range MediaServiceDesc.Methods {
		registered[m.MethodName] = rpc{}
	}
	for _, s := range MediaServiceDesc.Streams {
		registered[s.StreamName] = rpc{clientStreams: s.ClientStreams, serverStreams: s.ServerStreams}
	}

	if len(declared) != len(registered) {
		t.Errorf("Proto declares %d rpcs, descriptor registers %d", len(declared), len(registered))
	}
	for name, want := range declared {
		got, ok := registered[name]
		if !ok {
			t.Errorf("rpc %s is declared but not registered", name)
			continue
		}
		if got != want {
			t.Errorf("rpc %s streaming mismatch: proto %+v, descriptor %+v", name, want, got)
		}
	}
}
