package confname

import "testing"

func TestNameEqualNormalization(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"server_port", "Server Port", true},
		{"server port", "SERVER_PORT", true},
		{"server_port", "server_ports", false},
	}
	for _, c := range cases {
		a := NewRegular(c.a)
		b := NewRegular(c.b)
		if got := a.Equal(b); got != c.want {
			t.Errorf("Equal(%q, %q) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestNameTextIsCaseSensitive(t *testing.T) {
	a := NewText("Key")
	b := NewText("key")
	if a.Equal(b) {
		t.Errorf("text names should not normalize case")
	}
}

func TestIsReserved(t *testing.T) {
	cases := map[string]bool{
		"vr_template":   true,
		"vr_entry":      true,
		"vr_any":        true,
		"vr_name":       true,
		"vr_key":        true,
		"vr_dependency": true,
		"vr_custom":     true,
		"port":          false,
		"vrfoo":         false,
	}
	for text, want := range cases {
		if got := NewRegular(text).IsReserved(); got != want {
			t.Errorf("IsReserved(%q) = %v, want %v", text, got, want)
		}
	}
}

func TestEscapedReserved(t *testing.T) {
	n := NewRegular("vr_vr_template")
	if !n.IsEscapedReserved() {
		t.Fatalf("expected vr_vr_template to be escaped reserved")
	}
	if got := n.Unescaped(); got.Text() != "vr_template" {
		t.Errorf("Unescaped() = %q, want vr_template", got.Text())
	}
}

func TestNamePathFind(t *testing.T) {
	p := NewNamePath(NewRegular("filter"), NewRegular("vr_entry"), NewRegular("identifier"))
	if idx := p.Find(NewRegular("vr_entry")); idx != 1 {
		t.Fatalf("Find(vr_entry) = %d, want 1", idx)
	}
	if idx := p.Find(NewRegular("missing")); idx != NotFound {
		t.Fatalf("Find(missing) = %d, want NotFound", idx)
	}
}

func TestNamePathSubPath(t *testing.T) {
	p := NewNamePath(NewRegular("a"), NewRegular("b"), NewRegular("c"), NewRegular("d"))
	sub := p.SubPath(1, 3)
	want := NewNamePath(NewRegular("b"), NewRegular("c"))
	if !sub.Equal(want) {
		t.Errorf("SubPath(1,3) = %v, want %v", sub, want)
	}
}

func TestNamePathString(t *testing.T) {
	p := NewNamePath(NewRegular("server"), NewRegular("port"))
	if got := p.String(); got != "server.port" {
		t.Errorf("String() = %q, want server.port", got)
	}
}
