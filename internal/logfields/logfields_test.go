package logfields

import (
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"BuildID", KeyBuildID, "b1", BuildID("b1")},
		{"TaskID", KeyTaskID, "t1", TaskID("t1")},
		{"TaskType", KeyTaskType, "update", TaskType("update")},
		{"Stage", KeyStage, "assemble", Stage("assemble")},
		{"Repository", KeyRepo, "blog", Repository("blog")},
		{"Document", KeyDocument, "posts/a.md", Document("posts/a.md")},
		{"Asset", KeyAsset, "img.png", Asset("img.png")},
		{"Template", KeyTemplate, "post", Template("post")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"URL", KeyURL, "http://example", URL("http://example")},
		{"Method", KeyMethod, "POST", Method("POST")},
		{"RemoteAddr", KeyRemoteAddr, "1.2.3.4", RemoteAddr("1.2.3.4")},
		{"UserAgent", KeyUserAgent, "ua", UserAgent("ua")},
		{"Subject", KeySubject, "rstblog.update", Subject("rstblog.update")},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if got := tc.attr.Value.String(); got != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %v", tc.name, tc.attrVal, got)
		}
	}
}
