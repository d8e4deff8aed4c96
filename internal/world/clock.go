package world

import "worldsim/internal/config"

const minutesPerDay = 24 * 60

// Clock tracks elapsed simulation time and the in-game time of day.
type Clock struct {
	elapsed      float32
	minuteLength float32

	// time of day was base minutes when elapsed was baseElapsed
	base        int
	baseElapsed float32
}

func NewClock(cfg config.ClockConfig) *Clock {
	length := cfg.MinuteLength
	if length <= 0 {
		length = 1
	}
	c := &Clock{minuteLength: length}
	c.SetTime(cfg.StartHour, cfg.StartMinute)
	return c
}

func (c *Clock) Advance(dt float32) {
	if dt > 0 {
		c.elapsed += dt
	}
}

// Elapsed returns the simulated seconds since the clock started.
func (c *Clock) Elapsed() float32 {
	return c.elapsed
}

func (c *Clock) dayMinutes() int {
	passed := int((c.elapsed - c.baseElapsed) / c.minuteLength)
	return (c.base + passed) % minutesPerDay
}

func (c *Clock) Hour() int {
	return c.dayMinutes() / 60
}

func (c *Clock) Minute() int {
	return c.dayMinutes() % 60
}

// SetTime jumps the time of day without touching elapsed time, so running
// cooldowns are unaffected.
func (c *Clock) SetTime(hour, minute int) {
	m := (hour*60 + minute) % minutesPerDay
	if m < 0 {
		m += minutesPerDay
	}
	c.base = m
	c.baseElapsed = c.elapsed
}
