package ui

import "testing"

func TestBuildAndParseSimpleCallbacks(t *testing.T) {
	cases := []struct {
		build  func() (string, error)
		screen Screen
	}{
		{BuildHomeCallback, ScreenHome},
		{BuildFormatCallback, ScreenFormat},
		{BuildMediaCallback, ScreenMedia},
		{BuildCloseCallback, ScreenClose},
	}
	for _, tc := range cases {
		data, err := tc.build()
		if err != nil {
			t.Fatalf("failed to build callback for %s: %v", tc.screen, err)
		}
		action, err := ParseCallbackData(data)
		if err != nil {
			t.Fatalf("failed to parse %q: %v", data, err)
		}
		if action.Screen != tc.screen || action.Op != OpNone {
			t.Fatalf("round trip mismatch for %q: %+v", data, action)
		}
	}
}

func TestFormatSetCallbackRoundTrip(t *testing.T) {
	data, err := BuildFormatSetCallback(FormatCodeZip)
	if err != nil {
		t.Fatalf("BuildFormatSetCallback failed: %v", err)
	}
	if data != "s:fmt:set:2" {
		t.Fatalf("unexpected callback data: %q", data)
	}
	action, err := ParseCallbackData(data)
	if err != nil {
		t.Fatalf("ParseCallbackData failed: %v", err)
	}
	if action.Screen != ScreenFormat || action.Op != OpSet || action.Value != FormatCodeZip {
		t.Fatalf("unexpected action: %+v", action)
	}
}

func TestMediaToggleCallbackRoundTrip(t *testing.T) {
	data, err := BuildMediaToggleCallback(MediaAudio)
	if err != nil {
		t.Fatalf("BuildMediaToggleCallback failed: %v", err)
	}
	action, err := ParseCallbackData(data)
	if err != nil {
		t.Fatalf("ParseCallbackData failed: %v", err)
	}
	if action.Screen != ScreenMedia || action.Op != OpToggle || action.Value != MediaAudio {
		t.Fatalf("unexpected action: %+v", action)
	}
}

func TestBuildCallbackRejectsInvalidValues(t *testing.T) {
	if _, err := BuildFormatSetCallback(0); err == nil {
		t.Fatalf("expected error for unknown format code")
	}
	if _, err := BuildMediaToggleCallback(9); err == nil {
		t.Fatalf("expected error for unknown media target")
	}
}

func TestParseCallbackDataRejectsMalformedInput(t *testing.T) {
	cases := []string{
		"",
		"x:home",
		"s:unknown",
		"s:fmt:set",
		"s:fmt:set:9",
		"s:fmt:toggle:1",
		"s:media:set:1",
		"s:media:toggle:abc",
		"s:home:set:1:extra",
	}
	for _, data := range cases {
		if _, err := ParseCallbackData(data); err == nil {
			t.Fatalf("expected error for %q", data)
		}
	}
}

func TestFormatCodeMapping(t *testing.T) {
	for _, format := range []string{"apkg", "zip", "tsv"} {
		code := FormatCode(format)
		got, ok := FormatFromCode(code)
		if !ok || got != format {
			t.Fatalf("format %q did not survive the code round trip: %q", format, got)
		}
	}
	if FormatCode("unknown") != FormatCodePackage {
		t.Fatalf("unknown formats must map to the package code")
	}
	if _, ok := FormatFromCode(99); ok {
		t.Fatalf("expected unknown code to be rejected")
	}
}
