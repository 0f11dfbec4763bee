package coral

import "testing"

func TestParseResolvedMessages_WellFormed(t *testing.T) {
	payload := `<root>` +
		`<ResolvedMessage threadId="t1" senderId="a1" content="hello"/>` +
		`<ResolvedMessage threadId="t2" senderId="a2" content="world"/>` +
		`<ResolvedMessage threadId="t3" senderId="a3" content="again"/>` +
		`</root>`

	msgs := ParseResolvedMessages(payload)
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	want := []ResolvedMessage{
		{ThreadID: "t1", SenderID: "a1", Content: "hello"},
		{ThreadID: "t2", SenderID: "a2", Content: "world"},
		{ThreadID: "t3", SenderID: "a3", Content: "again"},
	}
	for i, w := range want {
		if msgs[i] != w {
			t.Errorf("message %d: got %+v, want %+v", i, msgs[i], w)
		}
	}
}

func TestParseResolvedMessages_DropsIncompleteRecords(t *testing.T) {
	payload := `<root>` +
		`<ResolvedMessage threadId="t1" senderId="a1" content="hi"/>` +
		`<ResolvedMessage threadId="t2" senderId="a2"/>` +
		`<ResolvedMessage senderId="a3" content="no thread"/>` +
		`<ResolvedMessage threadId="" senderId="a4" content="empty thread"/>` +
		`</root>`

	msgs := ParseResolvedMessages(payload)
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if msgs[0] != (ResolvedMessage{ThreadID: "t1", SenderID: "a1", Content: "hi"}) {
		t.Errorf("unexpected message: %+v", msgs[0])
	}
}

func TestParseResolvedMessages_NestedElements(t *testing.T) {
	payload := `<root><batch><ResolvedMessage threadId="t1" senderId="a1" content="nested"/></batch></root>`

	msgs := ParseResolvedMessages(payload)
	if len(msgs) != 1 {
		t.Fatalf("expected nested element to be found, got %d messages", len(msgs))
	}
}

func TestParseResolvedMessages_EmptyOrGarbage(t *testing.T) {
	cases := map[string]string{
		"empty":            "",
		"whitespace":       "   \n\t",
		"not xml":          "plain text response",
		"unterminated":     `<root><ResolvedMessage threadId="t1" senderId="a1" content="hi">`,
		"truncated payload": `<root><ResolvedMessage threadId="t1" senderId="a1" content="hi"/><Resol`,
	}
	for name, payload := range cases {
		if msgs := ParseResolvedMessages(payload); len(msgs) != 0 {
			t.Errorf("%s: expected no messages, got %d", name, len(msgs))
		}
	}
}

func TestParseResolvedMessages_NoMatchingElements(t *testing.T) {
	if msgs := ParseResolvedMessages(`<root><Other a="b"/></root>`); len(msgs) != 0 {
		t.Errorf("expected no messages, got %d", len(msgs))
	}
}
