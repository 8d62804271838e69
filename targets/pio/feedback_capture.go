// Package pio holds the PIO programs used by the bridge firmware. The
// programs are plain instruction slices, so they build and test on the host.
package pio

import (
	rp2pio "github.com/tinygo-org/pio/rp2-pio"
)

// Feedback period capture. The state machine counts X down once every two
// cycles while the input is high, then while it is low, and pushes the
// count on the next rising edge before starting over. One rising edge to
// the next is 2*count + FeedbackOverheadCycles PIO cycles.
//
//	    wait 0 pin 0        ; line up on the first rising edge
//	    wait 1 pin 0
//	.wrap_target
//	    mov x, ~null
//	high:
//	    jmp x-- next
//	next:
//	    jmp pin high
//	low:
//	    jmp pin done
//	    jmp x-- low
//	done:
//	    mov isr, ~x
//	    push noblock
//	    irq nowait 0
//	.wrap
func FeedbackProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		asm.WaitPin(false, 0).Encode(),                             // 0: wait 0 pin 0
		asm.WaitPin(true, 0).Encode(),                              // 1: wait 1 pin 0
		asm.MovInvert(rp2pio.MovDestX, rp2pio.MovSrcNull).Encode(), // 2: mov x, ~null
		asm.Jmp(4, rp2pio.JmpXNZeroDec).Encode(),                   // 3: jmp x--, 4
		asm.Jmp(3, rp2pio.JmpPinInput).Encode(),                    // 4: jmp pin, 3
		asm.Jmp(7, rp2pio.JmpPinInput).Encode(),                    // 5: jmp pin, 7
		asm.Jmp(5, rp2pio.JmpXNZeroDec).Encode(),                   // 6: jmp x--, 5
		asm.MovInvert(rp2pio.MovDestISR, rp2pio.MovSrcX).Encode(),  // 7: mov isr, ~x
		asm.Push(false, false).Encode(),                            // 8: push noblock
		asm.IRQSet(false, FeedbackIRQFlag).Encode(),                // 9: irq nowait 0
	}
}

const (
	FeedbackOrigin         = 0 // jump targets above are absolute
	FeedbackWrapTarget     = 2
	FeedbackWrap           = 9
	FeedbackOverheadCycles = 4

	FeedbackIRQFlag = 0
	// INTE0 bits 8..11 route state machine IRQ flags 0..3 to PIO0_IRQ_0.
	FeedbackIRQEnable = 1 << (8 + FeedbackIRQFlag)
)

// FeedbackTicks converts a pushed count to PIO cycles between rising edges,
// saturating at the 16-bit timer range.
func FeedbackTicks(count uint32) uint16 {
	ticks := 2*uint64(count) + FeedbackOverheadCycles
	if ticks > 0xffff {
		return 0xffff
	}
	return uint16(ticks)
}
