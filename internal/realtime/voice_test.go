package realtime

import "testing"

func TestVoiceSessions_Ownership(t *testing.T) {
	v := newVoiceSessions(&VoicePipeline{})

	s := v.start(1, "en", "de")
	if s.ID == "" {
		t.Fatal("realtime:voice_test - session ID not assigned")
	}
	if s.SourceLanguage != "en" || s.TargetLanguage != "de" {
		t.Errorf("realtime:voice_test - languages = %s -> %s", s.SourceLanguage, s.TargetLanguage)
	}

	if got := v.get(s.ID, 1); got != s {
		t.Error("realtime:voice_test - owner cannot fetch own session")
	}
	if got := v.get(s.ID, 2); got != nil {
		t.Error("realtime:voice_test - session visible to another user")
	}

	if v.end(s.ID, 2) {
		t.Error("realtime:voice_test - another user ended the session")
	}
	if !v.end(s.ID, 1) {
		t.Error("realtime:voice_test - owner could not end session")
	}
	if v.end(s.ID, 1) {
		t.Error("realtime:voice_test - ended session ended twice")
	}
}

func TestVoiceSessions_EndAll(t *testing.T) {
	v := newVoiceSessions(&VoicePipeline{})

	mine1 := v.start(1, "en", "de")
	mine2 := v.start(1, "en", "fr")
	theirs := v.start(2, "it", "en")

	v.endAll(1)

	if v.get(mine1.ID, 1) != nil || v.get(mine2.ID, 1) != nil {
		t.Error("realtime:voice_test - endAll left sessions behind")
	}
	if v.get(theirs.ID, 2) == nil {
		t.Error("realtime:voice_test - endAll removed another user's session")
	}
}
