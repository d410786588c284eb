package main

import "testing"

func TestShouldUseTUIExplicitModes(t *testing.T) {
	on, err := shouldUseTUI("on")
	if err != nil || !on {
		t.Fatalf("expected on=true, nil, got %v, %v", on, err)
	}
	off, err := shouldUseTUI("OFF")
	if err != nil || off {
		t.Fatalf("expected off=false, nil, got %v, %v", off, err)
	}
}

func TestShouldUseTUIRejectsUnknownMode(t *testing.T) {
	if _, err := shouldUseTUI("sideways"); err == nil {
		t.Fatal("expected an error for an unrecognized --ui value")
	}
}
