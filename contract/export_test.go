package contract

// LockTableSize exposes the number of live lock entries to the external tests.
func LockTableSize(c *Contract) int { return c.locks.size() }
