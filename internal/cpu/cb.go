package cpu

// executeCB decodes and runs one CB-prefixed opcode. All 256 are regular:
// x=0 rotate/shift, x=1 BIT, x=2 RES, x=3 SET, each indexed by an 8-way
// operation select (y) and operand register (z).
func (c *CPU) executeCB() error {
	op := c.fetch()
	x := op >> 6
	y := (op >> 3) & 7
	z := op & 7

	switch x {
	case 0:
		v := c.readR(z)
		switch y {
		case 0:
			v = c.rlc(v)
		case 1:
			v = c.rrc(v)
		case 2:
			v = c.rl(v)
		case 3:
			v = c.rr(v)
		case 4:
			v = c.sla(v)
		case 5:
			v = c.sra(v)
		case 6:
			v = c.swap(v)
		case 7:
			v = c.srl(v)
		}
		c.writeR(z, v)
	case 1:
		c.bit(y, c.readR(z))
	case 2:
		c.writeR(z, c.readR(z)&^(1<<y))
	case 3:
		c.writeR(z, c.readR(z)|(1<<y))
	}
	return nil
}
