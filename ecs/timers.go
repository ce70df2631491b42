package ecs

type TimerID uint64

type timer struct {
	id        TimerID
	run       RunID
	due       float64
	period    float64
	fn        func()
	cancelled bool
}

// Timers schedules callbacks on the simulation clock (ms). Everything runs on
// the caller's goroutine inside Advance.
type Timers struct {
	now    float64
	nextID TimerID
	timers []*timer
}

func NewTimers() *Timers {
	return &Timers{}
}

// Now returns the last time passed to Advance.
func (t *Timers) Now() float64 {
	if t == nil {
		return 0
	}
	return t.now
}

// Every fires fn each period ms, first at now+period.
func (t *Timers) Every(run RunID, period float64, fn func()) TimerID {
	if t == nil || fn == nil || period <= 0 {
		return 0
	}
	return t.add(run, t.now+period, period, fn)
}

// After fires fn once, delay ms from now.
func (t *Timers) After(run RunID, delay float64, fn func()) TimerID {
	if t == nil || fn == nil {
		return 0
	}
	if delay < 0 {
		delay = 0
	}
	return t.add(run, t.now+delay, 0, fn)
}

func (t *Timers) add(run RunID, due, period float64, fn func()) TimerID {
	t.nextID++
	t.timers = append(t.timers, &timer{id: t.nextID, run: run, due: due, period: period, fn: fn})
	return t.nextID
}

// Cancel stops a timer. A cancelled timer never fires, even if it was due in
// the advance that is running.
func (t *Timers) Cancel(id TimerID) bool {
	if t == nil {
		return false
	}
	for _, tm := range t.timers {
		if tm.id == id && !tm.cancelled {
			tm.cancelled = true
			return true
		}
	}
	return false
}

// CancelRun cancels every timer of a run and returns how many were live.
func (t *Timers) CancelRun(run RunID) int {
	if t == nil {
		return 0
	}
	n := 0
	for _, tm := range t.timers {
		if tm.run == run && !tm.cancelled {
			tm.cancelled = true
			n++
		}
	}
	t.prune()
	return n
}

// Count returns the number of live timers for a run.
func (t *Timers) Count(run RunID) int {
	if t == nil {
		return 0
	}
	n := 0
	for _, tm := range t.timers {
		if tm.run == run && !tm.cancelled {
			n++
		}
	}
	return n
}

// Advance moves the clock to now and fires due callbacks in (due, id) order.
// Periodic timers that fell behind fire once per missed period.
func (t *Timers) Advance(now float64) {
	if t == nil {
		return
	}
	if now > t.now {
		t.now = now
	}
	for {
		next := t.earliestDue()
		if next == nil {
			break
		}
		if next.period > 0 {
			next.due += next.period
		} else {
			next.cancelled = true
		}
		next.fn()
	}
	t.prune()
}

func (t *Timers) earliestDue() *timer {
	var best *timer
	for _, tm := range t.timers {
		if tm.cancelled || tm.due > t.now {
			continue
		}
		if best == nil || tm.due < best.due || (tm.due == best.due && tm.id < best.id) {
			best = tm
		}
	}
	return best
}

func (t *Timers) prune() {
	live := t.timers[:0]
	for _, tm := range t.timers {
		if !tm.cancelled {
			live = append(live, tm)
		}
	}
	for i := len(live); i < len(t.timers); i++ {
		t.timers[i] = nil
	}
	t.timers = live
}
