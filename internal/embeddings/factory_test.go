package embeddings

import "testing"

func TestSplitQdrantURL(t *testing.T) {
	cases := []struct {
		url      string
		wantHost string
		wantPort int
		wantTLS  bool
	}{
		{"http://localhost:6334", "localhost", 6334, false},
		{"https://qdrant.internal:6334", "qdrant.internal", 6334, true},
		{"http://localhost", "localhost", 6334, false},
	}
	for _, c := range cases {
		host, port, tls := splitQdrantURL(c.url)
		if host != c.wantHost || port != c.wantPort || tls != c.wantTLS {
			t.Errorf("splitQdrantURL(%q) = (%q, %d, %v), want (%q, %d, %v)",
				c.url, host, port, tls, c.wantHost, c.wantPort, c.wantTLS)
		}
	}
}
