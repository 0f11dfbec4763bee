package coral

import (
	"encoding/xml"
	"io"
	"strings"
)

// ResolvedMessage is one routed message extracted from a wait_for_mentions
// payload.
type ResolvedMessage struct {
	ThreadID string `json:"threadId"`
	SenderID string `json:"senderId"`
	Content  string `json:"content"`
}

// ParseResolvedMessages extracts every well-formed ResolvedMessage element
// from the XML payload returned by the server's wait_for_mentions tool.
//
// The payload comes from a third party and may be empty, truncated, or not XML
// at all, so this parser never fails: a record is kept only when threadId,
// senderId and content are all present and non-empty, and any decoding error
// yields an empty result. Document order is preserved.
func ParseResolvedMessages(payload string) []ResolvedMessage {
	if strings.TrimSpace(payload) == "" {
		return nil
	}

	dec := xml.NewDecoder(strings.NewReader(payload))
	var out []ResolvedMessage
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return out
		}
		if err != nil {
			// Malformed XML invalidates the whole payload, including any
			// records collected before the error.
			return nil
		}

		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "ResolvedMessage" {
			continue
		}

		var msg ResolvedMessage
		for _, attr := range se.Attr {
			switch attr.Name.Local {
			case "threadId":
				msg.ThreadID = attr.Value
			case "senderId":
				msg.SenderID = attr.Value
			case "content":
				msg.Content = attr.Value
			}
		}
		if msg.ThreadID != "" && msg.SenderID != "" && msg.Content != "" {
			out = append(out, msg)
		}
	}
}
