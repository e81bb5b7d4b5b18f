package manifest

import "testing"

func TestParseTopLevelFields(t *testing.T) {
	m, err := Parse([]byte(`
name = "example"
version = "1.0.0"
entry = "main.cln"
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.Name != "example" || m.Version != "1.0.0" || m.Entry != "main.cln" {
		t.Fatalf("unexpected manifest: %+v", m)
	}
}

func TestParseDependenciesTable(t *testing.T) {
	m, err := Parse([]byte(`
name = "example"

[dependencies]
http-helpers = "0.2.0"
json-lite = "1.4.1"
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(m.Dependencies) != 2 || m.Dependencies["http-helpers"] != "0.2.0" || m.Dependencies["json-lite"] != "1.4.1" {
		t.Fatalf("unexpected dependencies: %+v", m.Dependencies)
	}
}

func TestParseIgnoresComments(t *testing.T) {
	m, err := Parse([]byte(`
# this is a package manifest
name = "example" # trailing comment
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.Name != "example" {
		t.Fatalf("comment not stripped: %+v", m)
	}
}

func TestParseRejectsUnknownTopLevelKey(t *testing.T) {
	_, err := Parse([]byte(`author = "nobody"`))
	if err == nil {
		t.Fatal("expected error for unknown top-level key")
	}
}

func TestParseRejectsMalformedLine(t *testing.T) {
	_, err := Parse([]byte(`not a valid line`))
	if err == nil {
		t.Fatal("expected error for malformed line")
	}
}
