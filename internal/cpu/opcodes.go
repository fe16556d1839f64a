package cpu

// execute decodes and runs one base-table opcode, using the conventional
// x/y/z/p/q bit-field decomposition (x=op>>6, y=(op>>3)&7, z=op&7,
// p=y>>1, q=y&1) for the large regular blocks, and an explicit switch for
// the irregular ones.
func (c *CPU) execute(op uint8) error {
	x := op >> 6
	y := (op >> 3) & 7
	z := op & 7
	p := y >> 1
	q := y & 1

	switch x {
	case 0:
		return c.executeX0(op, y, z, p, q)
	case 1:
		if z == 6 && y == 6 {
			c.enterHalt()
			return nil
		}
		if op == 0x40 && c.BreakpointHook != nil {
			c.BreakpointHook("ld-b-b")
		}
		c.writeR(y, c.readR(z))
		return nil
	case 2:
		c.aluOp(y, c.readR(z))
		return nil
	default:
		return c.executeX3(op, y, z, p, q)
	}
}

func (c *CPU) enterHalt() {
	if !c.irq.IME && c.irq.Pending() {
		c.haltBug = true
	} else {
		c.halted = true
	}
}

func (c *CPU) aluOp(y uint8, v uint8) {
	switch y {
	case 0:
		c.add(v, false)
	case 1:
		c.add(v, c.flag(FlagC))
	case 2:
		c.sub(v, false)
	case 3:
		c.sub(v, c.flag(FlagC))
	case 4:
		c.and(v)
	case 5:
		c.xor(v)
	case 6:
		c.or(v)
	case 7:
		c.cp(v)
	}
}

func (c *CPU) executeX0(op, y, z, p, q uint8) error {
	switch z {
	case 0:
		switch y {
		case 0: // NOP
		case 1: // LD (nn),SP
			addr := c.fetch16()
			c.writeMem(addr, uint8(c.SP))
			c.writeMem(addr+1, uint8(c.SP>>8))
		case 2: // STOP
			c.fetch() // discard the trailing 0x00
			c.stopped = true
			c.bus.Write(0xFF04, 0) // DIV resets on STOP, same path as a direct write
		case 3: // JR d
			d := int8(c.fetch())
			c.tick()
			c.PC = uint16(int32(c.PC) + int32(d))
		default: // JR cc,d
			d := int8(c.fetch())
			if c.cond(y - 4) {
				c.tick()
				c.PC = uint16(int32(c.PC) + int32(d))
			}
		}
	case 1:
		if q == 0 {
			c.writeRP(p, c.fetch16())
		} else {
			c.tick()
			c.addHL(c.readRP(p))
		}
	case 2:
		addr := hlMemOp(p, q, &c.Registers)
		if q == 0 {
			c.writeMem(addr, c.A)
		} else {
			c.A = c.readMem(addr)
		}
	case 3:
		c.tick()
		if q == 0 {
			c.writeRP(p, c.readRP(p)+1)
		} else {
			c.writeRP(p, c.readRP(p)-1)
		}
	case 4:
		c.writeR(y, c.inc8(c.readR(y)))
	case 5:
		c.writeR(y, c.dec8(c.readR(y)))
	case 6:
		c.writeR(y, c.fetch())
	case 7:
		switch y {
		case 0:
			c.A = c.rlc(c.A)
			c.setFlag(FlagZ, false)
		case 1:
			c.A = c.rrc(c.A)
			c.setFlag(FlagZ, false)
		case 2:
			c.A = c.rl(c.A)
			c.setFlag(FlagZ, false)
		case 3:
			c.A = c.rr(c.A)
			c.setFlag(FlagZ, false)
		case 4:
			c.daa()
		case 5:
			c.A = ^c.A
			c.setFlag(FlagN, true)
			c.setFlag(FlagH, true)
		case 6:
			c.setFlag(FlagN, false)
			c.setFlag(FlagH, false)
			c.setFlag(FlagC, true)
		case 7:
			c.setFlag(FlagN, false)
			c.setFlag(FlagH, false)
			c.setFlag(FlagC, !c.flag(FlagC))
		}
	}
	return nil
}

// hlMemOp returns the address for the (BC)/(DE)/(HL+)/(HL-) group,
// applying the HL increment/decrement side effect.
func hlMemOp(p, q uint8, r *Registers) uint16 {
	switch p {
	case 0:
		return r.BC()
	case 1:
		return r.DE()
	case 2:
		addr := r.HL()
		r.SetHL(addr + 1)
		return addr
	default:
		addr := r.HL()
		r.SetHL(addr - 1)
		return addr
	}
}

func (c *CPU) executeX3(op, y, z, p, q uint8) error {
	switch z {
	case 0:
		switch y {
		case 0, 1, 2, 3:
			c.tick()
			if c.cond(y) {
				c.PC = c.pop()
				c.tick()
				c.leaveCall()
			}
		case 4:
			n := c.fetch()
			c.writeMem(0xFF00+uint16(n), c.A)
		case 5:
			d := int8(c.fetch())
			c.tick()
			c.tick()
			c.SP = c.addSPSigned(d)
		case 6:
			n := c.fetch()
			c.A = c.readMem(0xFF00 + uint16(n))
		case 7:
			d := int8(c.fetch())
			c.tick()
			c.SetHL(c.addSPSigned(d))
		}
	case 1:
		if q == 0 {
			c.writeRP2(p, c.pop())
		} else {
			switch p {
			case 0:
				c.PC = c.pop()
				c.leaveCall()
			case 1:
				c.PC = c.pop()
				c.leaveCall()
				c.irq.ScheduleEnable()
				c.irq.Tick()
			case 2:
				c.PC = c.HL()
			case 3:
				c.tick()
				c.SP = c.HL()
			}
		}
	case 2:
		switch y {
		case 0, 1, 2, 3:
			addr := c.fetch16()
			if c.cond(y) {
				c.tick()
				c.PC = addr
			}
		case 4:
			c.writeMem(0xFF00+uint16(c.C), c.A)
		case 5:
			c.writeMem(c.fetch16(), c.A)
		case 6:
			c.A = c.readMem(0xFF00 + uint16(c.C))
		case 7:
			c.A = c.readMem(c.fetch16())
		}
	case 3:
		switch y {
		case 0:
			addr := c.fetch16()
			c.tick()
			c.PC = addr
		case 1:
			return c.executeCB()
		case 6:
			c.irq.DisableImmediately()
		case 7:
			c.irq.ScheduleEnable()
		default:
			return illegalOpcode(op)
		}
	case 4:
		if y <= 3 {
			addr := c.fetch16()
			if c.cond(y) {
				c.tick()
				c.push(c.PC)
				c.PC = addr
				c.enterCall()
			}
		} else {
			return illegalOpcode(op)
		}
	case 5:
		if q == 0 {
			c.tick()
			c.push(c.readRP2(p))
		} else if p == 0 {
			addr := c.fetch16()
			c.tick()
			c.push(c.PC)
			c.PC = addr
			c.enterCall()
		} else {
			return illegalOpcode(op)
		}
	case 6:
		c.aluOp(y, c.fetch())
	case 7:
		c.tick()
		c.push(c.PC)
		c.PC = uint16(y) * 8
		c.enterCall()
	}
	return nil
}
