package wm

import (
	"reflect"
	"testing"
)

func TestSplitAccelerator(t *testing.T) {
	tests := []struct {
		accel    string
		wantMods []string
		wantKey  string
	}{
		{"<Super>j", []string{"super"}, "j"},
		{"<Primary><Shift>F2", []string{"primary", "shift"}, "F2"},
		{"<Ctrl><Alt>Delete", []string{"ctrl", "alt"}, "Delete"},
		{"F11", nil, "F11"},
		{"  <Super>Return ", []string{"super"}, "Return"},
	}
	for _, tt := range tests {
		t.Run(tt.accel, func(t *testing.T) {
			mods, key, err := splitAccelerator(tt.accel)
			if err != nil {
				t.Fatalf("splitAccelerator(%q) failed: %v", tt.accel, err)
			}
			if !reflect.DeepEqual(mods, tt.wantMods) {
				t.Errorf("mods = %v, want %v", mods, tt.wantMods)
			}
			if key != tt.wantKey {
				t.Errorf("key = %q, want %q", key, tt.wantKey)
			}
		})
	}
}

func TestSplitAcceleratorErrors(t *testing.T) {
	for _, accel := range []string{
		"",
		"<Super>",
		"<Super",
		"<Super>j<",
		"j>k",
	} {
		t.Run(accel, func(t *testing.T) {
			if _, _, err := splitAccelerator(accel); err == nil {
				t.Errorf("splitAccelerator(%q) should fail", accel)
			}
		})
	}
}

func TestAccelKeysCoverCommonNames(t *testing.T) {
	for _, name := range []string{
		"a", "z", "0", "9", "f1", "f12",
		"space", "tab", "return", "enter", "escape", "esc",
	} {
		if _, ok := accelKeys[name]; !ok {
			t.Errorf("accelKeys missing %q", name)
		}
	}
	if _, ok := accelKeys["no-such-key"]; ok {
		t.Error("accelKeys should not match arbitrary names")
	}
}
