package collab

import (
	"context"
	"errors"
	"testing"
	"time"

	"coedit/internal/models"
	"coedit/internal/store"
	"coedit/internal/ws"
)

func newTestService(t *testing.T) (*Service, *ws.Table, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemory()
	table := ws.NewTable()
	return NewService(st, table), table, st
}

func mustCreateRoom(t *testing.T, svc *Service, name, language string) string {
	t.Helper()
	room, err := svc.CreateRoom(context.Background(), name, language)
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	return room.ID
}

func mustJoin(t *testing.T, svc *Service, roomID, participantID string) *JoinSnapshot {
	t.Helper()
	snap, err := svc.Join(context.Background(), roomID, participantID, "")
	if err != nil {
		t.Fatalf("Join(%s, %s): %v", roomID, participantID, err)
	}
	return snap
}

func recvFrame(t *testing.T, ch chan ws.Frame) ws.Frame {
	t.Helper()
	select {
	case f := <-ch:
		return f
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for frame")
		return ws.Frame{}
	}
}

func assertNoFrame(t *testing.T, ch chan ws.Frame) {
	t.Helper()
	select {
	case f := <-ch:
		t.Fatalf("unexpected frame %q: %+v", f.Type, f.Data)
	case <-time.After(50 * time.Millisecond):
	}
}

func memberIDs(members []models.Participant) []string {
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	return ids
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestCreateRoomDefaults(t *testing.T) {
	svc, _, st := newTestService(t)
	room, err := svc.CreateRoom(context.Background(), "demo", "")
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if room.Language != "javascript" {
		t.Errorf("language = %q, want javascript", room.Language)
	}
	if room.Code != "" {
		t.Errorf("code = %q, want empty", room.Code)
	}
	if _, err := st.Get(context.Background(), room.ID); err != nil {
		t.Errorf("durable record missing: %v", err)
	}
	// creation is lazy: no live entry until first join or access
	if svc.reg.lookup(room.ID) != nil {
		t.Error("room materialized at creation")
	}
}

func TestJoinUnknownRoom(t *testing.T) {
	svc, _, _ := newTestService(t)
	if _, err := svc.Join(context.Background(), "nope", "u1", ""); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("err = %v, want ErrRoomNotFound", err)
	}
}

func TestJoinSnapshotAndMaterialization(t *testing.T) {
	svc, _, _ := newTestService(t)
	roomID := mustCreateRoom(t, svc, "demo", "python")

	snap := mustJoin(t, svc, roomID, "u1")
	if snap.Code != "" || snap.Language != "python" || snap.RoomName != "demo" {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.ParticipantID != "u1" {
		t.Errorf("participantId = %q, want u1", snap.ParticipantID)
	}
	if !equalIDs(memberIDs(snap.Members), []string{"u1"}) {
		t.Errorf("members = %v, want [u1]", memberIDs(snap.Members))
	}
	if svc.reg.lookup(roomID) == nil {
		t.Error("room not materialized on join")
	}
}

func TestJoinGeneratesIdentity(t *testing.T) {
	svc, _, _ := newTestService(t)
	roomID := mustCreateRoom(t, svc, "demo", "")

	snap := mustJoin(t, svc, roomID, "")
	if snap.ParticipantID == "" {
		t.Fatal("no identity assigned")
	}
	if len(snap.Members) != 1 || snap.Members[0].ID != snap.ParticipantID {
		t.Errorf("members = %v, want the generated identity", snap.Members)
	}
}

func TestJoinIdempotentUnderIdentityReuse(t *testing.T) {
	svc, _, _ := newTestService(t)
	roomID := mustCreateRoom(t, svc, "demo", "")

	mustJoin(t, svc, roomID, "u1")
	snap := mustJoin(t, svc, roomID, "u1")
	if !equalIDs(memberIDs(snap.Members), []string{"u1"}) {
		t.Errorf("members after rejoin = %v, want exactly [u1]", memberIDs(snap.Members))
	}
}

func TestJoinBroadcastAndExclusion(t *testing.T) {
	svc, table, _ := newTestService(t)
	roomID := mustCreateRoom(t, svc, "demo", "")

	ch1 := table.Open("u1")
	mustJoin(t, svc, roomID, "u1")
	assertNoFrame(t, ch1) // no self echo for the first joiner either

	ch2 := table.Open("u2")
	snap2 := mustJoin(t, svc, roomID, "u2")
	if !equalIDs(memberIDs(snap2.Members), []string{"u1", "u2"}) {
		t.Errorf("u2 snapshot members = %v", memberIDs(snap2.Members))
	}

	f := recvFrame(t, ch1)
	if f.Type != EventUserJoined {
		t.Fatalf("u1 received %q, want user_joined", f.Type)
	}
	data := f.Data.(UserJoinedData)
	if data.ParticipantID != "u2" || !equalIDs(memberIDs(data.Members), []string{"u1", "u2"}) {
		t.Errorf("user_joined data = %+v", data)
	}
	assertNoFrame(t, ch2) // joiner never sees its own join
}

func TestJoinMovesParticipantBetweenRooms(t *testing.T) {
	svc, table, _ := newTestService(t)
	roomA := mustCreateRoom(t, svc, "a", "")
	roomB := mustCreateRoom(t, svc, "b", "")

	chOther := table.Open("other")
	mustJoin(t, svc, roomA, "other")
	mustJoin(t, svc, roomA, "u1")
	recvFrame(t, chOther) // u1's user_joined

	mustJoin(t, svc, roomB, "u1")

	// u1 left room A on its way to room B
	f := recvFrame(t, chOther)
	if f.Type != EventUserLeft {
		t.Fatalf("other received %q, want user_left", f.Type)
	}
	if data := f.Data.(UserLeftData); data.ParticipantID != "u1" {
		t.Errorf("user_left data = %+v", data)
	}
	if got := memberIDs(svc.reg.lookup(roomA).memberList()); !equalIDs(got, []string{"other"}) {
		t.Errorf("room A members = %v, want [other]", got)
	}
	if svc.reg.roomOf("u1") != roomB {
		t.Errorf("index maps u1 to %q, want room B", svc.reg.roomOf("u1"))
	}
}

func TestEditBroadcastExclusionAndWriteThrough(t *testing.T) {
	svc, table, st := newTestService(t)
	roomID := mustCreateRoom(t, svc, "demo", "")

	ch1 := table.Open("u1")
	ch2 := table.Open("u2")
	mustJoin(t, svc, roomID, "u1")
	mustJoin(t, svc, roomID, "u2")
	recvFrame(t, ch1) // u2's join

	svc.Edit(roomID, "u1", "x=1")

	f := recvFrame(t, ch2)
	if f.Type != EventCodeUpdated {
		t.Fatalf("u2 received %q, want code_updated", f.Type)
	}
	data := f.Data.(CodeUpdatedData)
	if data.Code != "x=1" || data.AuthorID != "u1" {
		t.Errorf("code_updated data = %+v", data)
	}
	assertNoFrame(t, ch1) // author excluded

	// fire-and-forget write-through lands in the store eventually
	deadline := time.Now().Add(2 * time.Second)
	for {
		rec, err := st.Get(context.Background(), roomID)
		if err == nil && rec.Code == "x=1" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("write-through never reached the store")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestEditUnknownRoomIsNoop(t *testing.T) {
	svc, table, _ := newTestService(t)
	roomID := mustCreateRoom(t, svc, "demo", "")
	ch1 := table.Open("u1")
	mustJoin(t, svc, roomID, "u1")

	svc.Edit("gone", "u1", "x=1") // never materialized, never live
	assertNoFrame(t, ch1)
}

func TestEditSurvivesPersistenceFailure(t *testing.T) {
	svc, table, st := newTestService(t)
	roomID := mustCreateRoom(t, svc, "demo", "")
	ch2 := table.Open("u2")
	mustJoin(t, svc, roomID, "u1")
	mustJoin(t, svc, roomID, "u2")

	st.FailPut = errors.New("disk on fire")
	svc.Edit(roomID, "u1", "x=2")

	// broadcast happened regardless, and the live copy holds the new text
	f := recvFrame(t, ch2)
	if f.Type != EventCodeUpdated {
		t.Fatalf("u2 received %q, want code_updated", f.Type)
	}
	room := svc.reg.lookup(roomID)
	room.mu.Lock()
	code := room.code
	room.mu.Unlock()
	if code != "x=2" {
		t.Errorf("live code = %q, want x=2", code)
	}
}

func TestEditOrdering(t *testing.T) {
	svc, table, _ := newTestService(t)
	roomID := mustCreateRoom(t, svc, "demo", "")
	ch3 := table.Open("u3")
	mustJoin(t, svc, roomID, "u1")
	mustJoin(t, svc, roomID, "u2")
	mustJoin(t, svc, roomID, "u3") // last joiner sees no prior joins

	svc.Edit(roomID, "u1", "E1")
	svc.Edit(roomID, "u2", "E2")

	f1 := recvFrame(t, ch3)
	f2 := recvFrame(t, ch3)
	if f1.Data.(CodeUpdatedData).Code != "E1" || f2.Data.(CodeUpdatedData).Code != "E2" {
		t.Errorf("received out of order: %+v then %+v", f1.Data, f2.Data)
	}
}

func TestCursorMove(t *testing.T) {
	svc, table, _ := newTestService(t)
	roomID := mustCreateRoom(t, svc, "demo", "")
	ch1 := table.Open("u1")
	ch2 := table.Open("u2")
	mustJoin(t, svc, roomID, "u1")
	mustJoin(t, svc, roomID, "u2")
	recvFrame(t, ch1) // u2's join

	pos := models.CursorPosition{Line: 3, Column: 7}
	svc.CursorMove(roomID, "u2", pos)

	f := recvFrame(t, ch1)
	if f.Type != EventCursorUpdated {
		t.Fatalf("u1 received %q, want cursor_updated", f.Type)
	}
	data := f.Data.(CursorUpdatedData)
	if data.AuthorID != "u2" || data.Position != pos {
		t.Errorf("cursor_updated data = %+v", data)
	}
	assertNoFrame(t, ch2)

	// unknown room and non-member are both silent no-ops
	svc.CursorMove("gone", "u1", pos)
	svc.CursorMove(roomID, "stranger", pos)
	assertNoFrame(t, ch1)
}

func TestSave(t *testing.T) {
	svc, _, st := newTestService(t)
	roomID := mustCreateRoom(t, svc, "demo", "")
	mustJoin(t, svc, roomID, "u1")
	svc.Edit(roomID, "u1", "saved text")

	if err := svc.Save(context.Background(), roomID); err != nil {
		t.Fatalf("Save: %v", err)
	}
	rec, err := st.Get(context.Background(), roomID)
	if err != nil || rec.Code != "saved text" {
		t.Errorf("stored = %+v, %v", rec, err)
	}

	if err := svc.Save(context.Background(), "gone"); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("Save on unknown room = %v, want ErrRoomNotFound", err)
	}

	st.FailPut = errors.New("disk on fire")
	if err := svc.Save(context.Background(), roomID); err == nil {
		t.Error("Save swallowed a persistence failure")
	}
}

func TestLeave(t *testing.T) {
	svc, table, _ := newTestService(t)
	roomID := mustCreateRoom(t, svc, "demo", "")
	ch1 := table.Open("u1")
	mustJoin(t, svc, roomID, "u1")
	mustJoin(t, svc, roomID, "u2")
	recvFrame(t, ch1) // u2's join

	svc.Leave(roomID, "u2")

	f := recvFrame(t, ch1)
	if f.Type != EventUserLeft {
		t.Fatalf("u1 received %q, want user_left", f.Type)
	}
	data := f.Data.(UserLeftData)
	if data.ParticipantID != "u2" || !equalIDs(memberIDs(data.RemainingMembers), []string{"u1"}) {
		t.Errorf("user_left data = %+v", data)
	}

	// leaving twice, or leaving an unknown room, broadcasts nothing
	svc.Leave(roomID, "u2")
	svc.Leave("gone", "u1")
	assertNoFrame(t, ch1)
}

func TestMembershipTracksJoinLeaveSequences(t *testing.T) {
	svc, _, _ := newTestService(t)
	roomID := mustCreateRoom(t, svc, "demo", "")

	steps := []struct {
		op   string // "join" or "leave"
		id   string
		want []string
	}{
		{"join", "a", []string{"a"}},
		{"join", "b", []string{"a", "b"}},
		{"join", "a", []string{"a", "b"}},
		{"leave", "a", []string{"b"}},
		{"leave", "a", []string{"b"}},
		{"join", "c", []string{"b", "c"}},
		{"leave", "b", []string{"c"}},
		{"leave", "c", nil},
	}
	for i, s := range steps {
		if s.op == "join" {
			mustJoin(t, svc, roomID, s.id)
		} else {
			svc.Leave(roomID, s.id)
		}
		got := memberIDs(svc.reg.lookup(roomID).memberList())
		if !equalIDs(got, s.want) {
			t.Fatalf("step %d (%s %s): members = %v, want %v", i, s.op, s.id, got, s.want)
		}
	}
}
