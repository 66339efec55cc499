package controller

// Latch turns a held button into a single press.
type Latch struct {
	held bool
}

// Run returns true only on the tick that the button goes down. Holding it
// returns false until it's released and pressed again.
func (l *Latch) Run(down bool) bool {
	pressed := down && !l.held
	l.held = down
	return pressed
}
