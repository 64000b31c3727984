package collab

import (
	"time"

	"github.com/sirupsen/logrus"
)

// SweepOnce scans every live room and evicts members whose event channel is
// gone — the reclamation path for clients that vanished without a leave call.
// Candidates are collected first and removed after, never while ranging over
// the member map. Each eviction broadcasts one user_left to whoever remains.
func (s *Service) SweepOnce() {
	for _, roomID := range s.reg.liveRoomIDs() {
		room := s.reg.lookup(roomID)
		if room == nil {
			continue
		}

		room.mu.Lock()
		var stale []string
		for id := range room.members {
			if !s.channels.IsOpen(id) {
				stale = append(stale, id)
			}
		}
		for _, id := range stale {
			delete(room.members, id)
			delete(room.cursors, id)
			s.broadcast(room, "", userLeft(id, room.memberList()))
		}
		room.mu.Unlock()

		for _, id := range stale {
			s.reg.unindexParticipant(id, roomID)
			logrus.Infof("swept stale participant %s from room %s", id, roomID)
		}
	}
}

// Sweeper runs SweepOnce on a fixed interval until stopped.
type Sweeper struct {
	svc      *Service
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

func NewSweeper(svc *Service, interval time.Duration) *Sweeper {
	return &Sweeper{
		svc:      svc,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Run blocks, sweeping every interval, until Stop is called.
func (sw *Sweeper) Run() {
	defer close(sw.done)
	ticker := time.NewTicker(sw.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			sw.svc.SweepOnce()
		case <-sw.stop:
			return
		}
	}
}

// Stop halts the sweep loop and waits for it to exit.
func (sw *Sweeper) Stop() {
	close(sw.stop)
	<-sw.done
}
