package debug

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Versifine/locomotion/internal/event"
	"github.com/Versifine/locomotion/internal/input"
	"github.com/Versifine/locomotion/internal/sim"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/term"
)

const (
	defaultMovePulse = 180 * time.Millisecond
	// lookStep is one arrow press in look-axis units; at the default
	// sensitivities it turns the view by 5 degrees at 60 Hz.
	lookStep = float32(1.5)
)

type Stepper interface {
	Step() sim.Snapshot
	Last() sim.Snapshot
	TickInterval() time.Duration
}

type Teleporter interface {
	Position() mgl32.Vec3
	SetPosition(pos mgl32.Vec3)
}

type Console struct {
	runner    Stepper
	body      Teleporter
	live      *input.Live
	mode      string
	movePulse time.Duration

	in  io.Reader
	out io.Writer

	mu            sync.Mutex
	forwardUntil  time.Time
	backwardUntil time.Time
	leftUntil     time.Time
	rightUntil    time.Time
	commandMode   bool
	commandBuf    []rune
	statusWidth   int
}

// NewConsole drives runner from the keyboard. live must be the runner's
// input source.
func NewConsole(mode string, runner Stepper, body Teleporter, live *input.Live) *Console {
	return &Console{
		runner:    runner,
		body:      body,
		live:      live,
		mode:      mode,
		movePulse: defaultMovePulse,
		in:        os.Stdin,
		out:       os.Stdout,
	}
}

func (c *Console) Start(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("console is nil")
	}
	if c.runner == nil {
		return fmt.Errorf("console runner is nil")
	}
	if c.body == nil {
		return fmt.Errorf("console body is nil")
	}
	if c.live == nil {
		return fmt.Errorf("console input is nil")
	}

	if f, ok := c.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("set terminal raw mode: %w", err)
		}
		defer func() {
			_ = term.Restore(fd, oldState)
			fmt.Fprint(c.out, "\r\n")
		}()
	}

	fmt.Fprintf(c.out, "[debug] %s console started (W/A/S/D pulse, Space jump, E emote, F fire, arrows look, :help)\r\n", c.mode)
	c.renderStatusLine()

	go c.tickLoop(ctx)

	reader := bufio.NewReader(c.in)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		b, err := reader.ReadByte()
		if err != nil {
			if ctx.Err() != nil || err == io.EOF {
				return nil
			}
			return fmt.Errorf("read console input: %w", err)
		}
		c.handleKey(reader, b)
	}
}

func (c *Console) tickLoop(ctx context.Context) {
	ticker := time.NewTicker(c.runner.TickInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.tick(time.Now())
		}
	}
}

func (c *Console) tick(now time.Time) sim.Snapshot {
	c.live.SetMove(c.moveAxis(now))
	snap := c.runner.Step()
	if snap.Shot != nil {
		if snap.Shot.OK {
			c.printf("[debug] hit %s at %.2fm\r\n", snap.Shot.Hit.Name, snap.Shot.Hit.Distance)
		} else {
			c.printf("[debug] no hit\r\n")
		}
	}
	c.renderStatusLine()
	return snap
}

func (c *Console) handleKey(reader *bufio.Reader, b byte) {
	if c.isCommandMode() {
		c.handleCommandByte(b)
		return
	}

	switch b {
	case ':':
		c.enterCommandMode()
		return
	case 'w', 'W':
		c.pulse(&c.forwardUntil, &c.backwardUntil)
	case 's', 'S':
		c.pulse(&c.backwardUntil, &c.forwardUntil)
	case 'a', 'A':
		c.pulse(&c.leftUntil, &c.rightUntil)
	case 'd', 'D':
		c.pulse(&c.rightUntil, &c.leftUntil)
	case ' ':
		c.live.Press(event.Jump)
	case 'e', 'E':
		c.live.Press(event.Emote)
	case 'f', 'F':
		c.live.Press(event.Fire)
	case 'x', 'X':
		c.clearInput()
	case 27: // ESC + arrow sequence
		next, err := reader.ReadByte()
		if err != nil || next != '[' {
			return
		}
		arrow, err := reader.ReadByte()
		if err != nil {
			return
		}
		switch arrow {
		case 'D': // left
			c.live.AddLook(mgl32.Vec2{-lookStep, 0})
		case 'C': // right
			c.live.AddLook(mgl32.Vec2{lookStep, 0})
		case 'A': // up
			c.live.AddLook(mgl32.Vec2{0, lookStep})
		case 'B': // down
			c.live.AddLook(mgl32.Vec2{0, -lookStep})
		}
	}
	c.renderStatusLine()
}

func (c *Console) enterCommandMode() {
	c.mu.Lock()
	c.commandMode = true
	c.commandBuf = c.commandBuf[:0]
	c.mu.Unlock()
	c.printf("\r\n:")
}

func (c *Console) handleCommandByte(b byte) {
	switch b {
	case 13, 10: // Enter
		c.mu.Lock()
		cmd := strings.TrimSpace(string(c.commandBuf))
		c.commandMode = false
		c.commandBuf = c.commandBuf[:0]
		c.mu.Unlock()

		c.printf("\r\n")
		if cmd != "" {
			c.executeCommand(cmd)
		}
		c.renderStatusLine()
		return
	case 27: // ESC cancel command mode
		c.mu.Lock()
		c.commandMode = false
		c.commandBuf = c.commandBuf[:0]
		c.mu.Unlock()
		c.printf("\r\n[debug] command cancelled\r\n")
		c.renderStatusLine()
		return
	case 8, 127: // Backspace
		c.mu.Lock()
		if len(c.commandBuf) > 0 {
			c.commandBuf = c.commandBuf[:len(c.commandBuf)-1]
		}
		buf := string(c.commandBuf)
		c.mu.Unlock()
		c.printf("\r:%s ", buf)
		c.printf("\r:%s", buf)
		return
	default:
		if b < 32 || b > 126 {
			return
		}
		c.mu.Lock()
		c.commandBuf = append(c.commandBuf, rune(b))
		buf := string(c.commandBuf)
		c.mu.Unlock()
		c.printf("\r:%s", buf)
	}
}

func (c *Console) executeCommand(cmd string) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return
	}

	switch parts[0] {
	case "help":
		c.printHelp()
	case "state":
		snap := c.runner.Last()
		c.printf("[debug] frame=%d pos=(%.3f,%.3f,%.3f) vy=%.3f ground=%t heading=%.1f pitch=%.1f blend=(%.2f,%.2f)\r\n",
			snap.Frame,
			snap.Position.X(), snap.Position.Y(), snap.Position.Z(),
			snap.VerticalVelocity,
			snap.Grounded,
			snap.Heading,
			snap.Pitch,
			snap.Blend.X, snap.Blend.Y,
		)
	case "tp":
		if len(parts) != 4 {
			c.printf("[debug] usage: :tp <x> <y> <z>\r\n")
			return
		}
		x, err1 := strconv.ParseFloat(parts[1], 32)
		y, err2 := strconv.ParseFloat(parts[2], 32)
		z, err3 := strconv.ParseFloat(parts[3], 32)
		if err1 != nil || err2 != nil || err3 != nil {
			c.printf("[debug] invalid tp args\r\n")
			return
		}
		c.body.SetPosition(mgl32.Vec3{float32(x), float32(y), float32(z)})
		c.printf("[debug] teleported to (%.3f, %.3f, %.3f)\r\n", x, y, z)
	default:
		c.printf("[debug] unknown command: %s\r\n", parts[0])
	}
}

func (c *Console) printHelp() {
	c.printf("[debug] keys:\r\n")
	c.printf("  W/S/A/D: pulse movement (~180ms)\r\n")
	c.printf("  Space: jump\r\n")
	c.printf("  E: emote\r\n")
	c.printf("  F: fire\r\n")
	c.printf("  Arrows: look\r\n")
	c.printf("  X: clear movement\r\n")
	c.printf("  : enter command mode\r\n")
	c.printf("[debug] commands:\r\n")
	c.printf("  :tp <x> <y> <z>\r\n")
	c.printf("  :state\r\n")
	c.printf("  :help\r\n")
}

func (c *Console) renderStatusLine() {
	c.mu.Lock()
	if c.commandMode {
		c.mu.Unlock()
		return
	}
	width := c.statusWidth
	c.mu.Unlock()

	snap := c.runner.Last()
	move := c.live.Move()
	pos := c.body.Position()

	line := fmt.Sprintf(
		"[MOVE:%+.0f,%+.0f | HDG:%.1f PIT:%.1f | X:%.2f Y:%.2f Z:%.2f ground:%t]",
		move.X(), move.Y(),
		snap.Heading,
		snap.Pitch,
		pos.X(), pos.Y(), pos.Z(),
		snap.Grounded,
	)

	padding := ""
	if width > len(line) {
		padding = strings.Repeat(" ", width-len(line))
	}
	c.printf("\r%s%s", line, padding)

	c.mu.Lock()
	if len(line) > c.statusWidth {
		c.statusWidth = len(line)
	}
	c.mu.Unlock()
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) isCommandMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commandMode
}

// pulse holds a direction for movePulse and cancels its opposite.
func (c *Console) pulse(until, opposite *time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	*until = time.Now().Add(c.movePulse)
	*opposite = time.Time{}
}

func (c *Console) moveAxis(now time.Time) mgl32.Vec2 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var move mgl32.Vec2
	if active(&c.forwardUntil, now) {
		move[1]++
	}
	if active(&c.backwardUntil, now) {
		move[1]--
	}
	if active(&c.rightUntil, now) {
		move[0]++
	}
	if active(&c.leftUntil, now) {
		move[0]--
	}
	return move
}

func active(until *time.Time, now time.Time) bool {
	if until.IsZero() {
		return false
	}
	if !now.Before(*until) {
		*until = time.Time{}
		return false
	}
	return true
}

func (c *Console) clearInput() {
	c.mu.Lock()
	c.forwardUntil = time.Time{}
	c.backwardUntil = time.Time{}
	c.leftUntil = time.Time{}
	c.rightUntil = time.Time{}
	c.mu.Unlock()
	c.live.SetMove(mgl32.Vec2{})
	slog.Debug("debug input cleared")
}
