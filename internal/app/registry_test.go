package app

import (
	"testing"

	"github.com/mm-mmFrank/TheAudioApp/internal/domain"
)

const testSID = domain.SessionID("abc12345")

func TestRegistryJoinOrder(t *testing.T) {
	reg := NewParticipantRegistry()
	reg.Add(testSID, domain.NewParticipant("p1", "Alice", true))
	reg.Add(testSID, domain.NewParticipant("p2", "Bob", false))
	reg.Add(testSID, domain.NewParticipant("p3", "Carol", false))

	snap := reg.Snapshot(testSID)
	if len(snap) != 3 {
		t.Fatalf("roster size %d, want 3", len(snap))
	}
	for i, want := range []string{"Alice", "Bob", "Carol"} {
		if snap[i].Name != want {
			t.Errorf("roster[%d] = %q, want %q", i, snap[i].Name, want)
		}
	}
}

func TestRegistryRejoinReplacesInPlace(t *testing.T) {
	reg := NewParticipantRegistry()
	reg.Add(testSID, domain.NewParticipant("p1", "Alice", true))
	reg.Add(testSID, domain.NewParticipant("p2", "Bob", false))

	muted := true
	if !reg.Update(testSID, "p1", ParticipantUpdate{IsMuted: &muted}) {
		t.Fatal("update failed")
	}

	if appended := reg.Add(testSID, domain.NewParticipant("p1", "Alice", true)); appended {
		t.Error("rejoin with same id appended instead of replacing")
	}

	snap := reg.Snapshot(testSID)
	if len(snap) != 2 {
		t.Fatalf("roster size %d after rejoin, want 2", len(snap))
	}
	if snap[0].ID != "p1" {
		t.Error("rejoin lost the original position")
	}
	if snap[0].IsMuted {
		t.Error("rejoin kept stale muted state")
	}
}

func TestRegistryUpdateMerges(t *testing.T) {
	reg := NewParticipantRegistry()
	reg.Add(testSID, domain.NewParticipant("p1", "Alice", true))

	level := 0.8
	speaking := true
	if !reg.Update(testSID, "p1", ParticipantUpdate{AudioLevel: &level, IsSpeaking: &speaking}) {
		t.Fatal("update failed")
	}

	p := reg.Snapshot(testSID)[0]
	if p.AudioLevel != 0.8 || !p.IsSpeaking {
		t.Errorf("level=%v speaking=%v", p.AudioLevel, p.IsSpeaking)
	}
	if p.IsMuted {
		t.Error("untouched field changed")
	}
	if p.ConnectionQuality != domain.QualityGood {
		t.Error("untouched quality changed")
	}

	if reg.Update(testSID, "ghost", ParticipantUpdate{IsSpeaking: &speaking}) {
		t.Error("update reported success for unknown participant")
	}
	if reg.Update("other", "p1", ParticipantUpdate{IsSpeaking: &speaking}) {
		t.Error("update reported success for unknown session")
	}
}

func TestRegistryRemove(t *testing.T) {
	reg := NewParticipantRegistry()
	reg.Add(testSID, domain.NewParticipant("p1", "Alice", true))
	reg.Add(testSID, domain.NewParticipant("p2", "Bob", false))

	if !reg.Remove(testSID, "p1") {
		t.Error("remove returned false for existing participant")
	}
	if reg.Remove(testSID, "p1") {
		t.Error("remove returned true twice")
	}

	snap := reg.Snapshot(testSID)
	if len(snap) != 1 || snap[0].ID != "p2" {
		t.Errorf("roster after remove: %+v", snap)
	}

	reg.Remove(testSID, "p2")
	if reg.Count(testSID) != 0 {
		t.Error("count not zero after removing everyone")
	}
}

func TestRegistrySnapshotIsCopy(t *testing.T) {
	reg := NewParticipantRegistry()
	reg.Add(testSID, domain.NewParticipant("p1", "Alice", true))

	snap := reg.Snapshot(testSID)
	snap[0].IsMuted = true

	if reg.Snapshot(testSID)[0].IsMuted {
		t.Error("snapshot aliases registry-owned state")
	}
}
