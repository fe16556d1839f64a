package ppu

// tileBytes returns the two bit-plane bytes for row (0-7) of tileID,
// honoring LCDC bit 4's unsigned/signed addressing mode.
func (p *PPU) tileBytes(tileID uint8, unsignedAddressing bool, row uint16) (lo, hi uint8) {
	var base int
	if unsignedAddressing {
		base = 0x8000 + int(tileID)*16
	} else {
		base = 0x9000 + int(int8(tileID))*16
	}
	off := base - 0x8000 + int(row)*2
	return p.vram[off], p.vram[off+1]
}

func tilePixelColor(lo, hi uint8, col uint8) uint8 {
	bit := 7 - col
	return (lo>>bit)&1 | ((hi>>bit)&1)<<1
}

// bgWindowPixel returns the background/window color index (0-3) at
// screen column x on the current line, per spec.md §4.3.
func (p *PPU) bgWindowPixel(x uint8) uint8 {
	if p.lcdc&0x01 == 0 {
		return 0
	}
	unsigned := p.lcdc&0x10 != 0

	if p.lcdc&0x20 != 0 && p.ly >= p.wy {
		wxEff := int(p.wx) - 7
		if int(x) >= wxEff && wxEff < ScreenWidth {
			winX := uint16(int(x) - wxEff)
			winY := uint16(p.ly - p.wy)
			mapBase := uint16(0x9800)
			if p.lcdc&0x40 != 0 {
				mapBase = 0x9C00
			}
			tileX, tileY := (winX/8)%32, (winY/8)%32
			tileID := p.vram[mapBase-0x8000+tileY*32+tileX]
			lo, hi := p.tileBytes(tileID, unsigned, winY%8)
			return tilePixelColor(lo, hi, uint8(winX%8))
		}
	}

	px := uint16(p.scx) + uint16(x)
	py := uint16(p.scy) + uint16(p.ly)
	mapBase := uint16(0x9800)
	if p.lcdc&0x08 != 0 {
		mapBase = 0x9C00
	}
	tileX, tileY := (px/8)%32, (py/8)%32
	tileID := p.vram[mapBase-0x8000+tileY*32+tileX]
	lo, hi := p.tileBytes(tileID, unsigned, py%8)
	return tilePixelColor(lo, hi, uint8(px%8))
}

// spriteAt returns the winning sprite covering column x (lowest X, ties
// by OAM order) and whether any sprite covers x at all.
func (p *PPU) spriteAt(x uint8) (spriteEntry, bool) {
	var best spriteEntry
	found := false
	for i := 0; i < p.selectedLen; i++ {
		e := p.selected[i]
		left := int(e.x) - 8
		if int(x) < left || int(x) >= left+8 {
			continue
		}
		if !found || e.x < best.x {
			best = e
			found = true
		}
	}
	return best, found
}

func (p *PPU) spritePixel(e spriteEntry, x uint8) (color uint8, opaque bool, behindBG bool, palette uint8) {
	height := p.spriteHeight()
	row := int(p.ly) - (int(e.y) - 16)
	if e.attr&0x40 != 0 { // Y flip
		row = int(height) - 1 - row
	}
	tile := e.tile
	if height == 16 {
		if row < 8 {
			tile &^= 0x01
		} else {
			tile |= 0x01
		}
		row %= 8
	}

	col := int(x) - (int(e.x) - 8)
	if e.attr&0x20 != 0 { // X flip
		col = 7 - col
	}

	lo, hi := p.tileBytes(tile, true, uint16(row))
	idx := tilePixelColor(lo, hi, uint8(col))

	pal := uint8(0)
	if e.attr&0x10 != 0 {
		pal = 1
	}
	return idx, idx != 0, e.attr&0x80 != 0, pal
}

func applyPalette(palette uint8, colorIndex uint8) uint8 {
	return (palette >> (colorIndex * 2)) & 0x03
}

// renderScanline computes all 160 pixels of the current line into back,
// run once at the instant Draw mode begins.
func (p *PPU) renderScanline() {
	ly := p.ly
	if int(ly) >= ScreenHeight {
		return
	}
	objEnabled := p.lcdc&0x02 != 0

	for x := uint8(0); x < ScreenWidth; x++ {
		bgIdx := p.bgWindowPixel(x)
		shade := applyPalette(p.bgp, bgIdx)

		if objEnabled {
			if sp, ok := p.spriteAt(x); ok {
				color, opaque, behindBG, pal := p.spritePixel(sp, x)
				if opaque && (!behindBG || bgIdx == 0) {
					obp := p.obp0
					if pal == 1 {
						obp = p.obp1
					}
					shade = applyPalette(obp, color)
				}
			}
		}

		p.back[ly][x] = shade
	}
}
