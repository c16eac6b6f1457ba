package main

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gethiox/padswap/internal/pkg/logger"
	"github.com/logrusorgru/aurora"
)

// messages shorter than that are padded, so fields of consecutive entries are aligned
const msgColumn = 32

type TimeNanosecond time.Time

func (j *TimeNanosecond) UnmarshalJSON(b []byte) error {
	v, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return err
	}
	*j = TimeNanosecond(time.Unix(0, v))
	return nil
}

type Entry struct {
	Ts     TimeNanosecond `json:"ts"`
	Caller string         `json:"caller"`
	Msg    string         `json:"msg"`
	Level  int            `json:"level"`

	Device      string `json:"device"`
	DeviceName  string `json:"device_name"`
	Type        string `json:"type"`
	Code        string `json:"code"`
	RelayedCode string `json:"relayed_code"`
	Value       *int32 `json:"value"`
	Op          string `json:"op"`
	Error       string `json:"error"`
}

func unpack(data []byte) (Entry, error) {
	var v Entry
	err := json.Unmarshal(data, &v)
	return v, err
}

func gray(v uint8) aurora.Color {
	if v > 23 {
		v = 23
	}
	return aurora.Color(232+v) << 16
}

func color(r, g, b uint8) aurora.Color {
	return aurora.Color(16+36*r+6*g+b) << 16
}

// terminator tells if r is a final byte of CSI sequence
func terminator(r rune) bool {
	return r >= 0x40 && r <= 0x7e
}

// colorForString picks a bright color derived from the string hash,
// so the same device or code is always printed the same way
func colorForString(au aurora.Aurora, s string) aurora.Value {
	h := fnv.New32a()
	h.Write([]byte(s))
	sum := h.Sum32()

	r := min(uint8(sum)&7, 5)
	g := min(uint8(sum>>8)&7, 5)
	b := min(uint8(sum>>16)&7, 5)
	if r+g+b < 3 {
		r, g, b = r+1, g+1, b+1
	}
	return au.Index(16+36*r+6*g+b, s)
}

// rawStringLen returns the printed length of s, CSI escape sequences are not counted
func rawStringLen(s string) int {
	n := len(s)
	for i := 0; i < len(s); i++ {
		if s[i] != '\033' || i+1 >= len(s) || s[i+1] != '[' {
			continue
		}
		j := i + 2
		for j < len(s) && !terminator(rune(s[j])) {
			j++
		}
		if j == len(s) {
			// unterminated sequence is printed as is
			break
		}
		n -= j - i + 1
		i = j
	}
	return n
}

func prepareString(msg Entry, au aurora.Aurora, logLevel int) string {
	if msg.Level > logLevel {
		return ""
	}

	var msgColor aurora.Color

	switch msg.Level {
	case logger.ErrorLvl:
		msgColor = color(5, 1, 1)
	case logger.WarningLvl:
		msgColor = color(5, 5, 1)
	case logger.InfoLvl:
		msgColor = gray(18)
	case logger.EventsLvl:
		msgColor = gray(14)
	case logger.DebugLvl:
		msgColor = gray(9)
	}

	t := time.Time(msg.Ts)
	timestamp := fmt.Sprintf(
		"[%s]",
		au.Reset(t.Format("15:04:05.000")).Colorize(color(1, 1, 5)).String(),
	)

	var fields []string
	if msg.Device != "" {
		fields = append(fields, fmt.Sprintf("[dev=%s]", colorForString(au, msg.Device).String()))
	}
	if msg.DeviceName != "" {
		fields = append(fields, fmt.Sprintf("[name=%s]", colorForString(au, msg.DeviceName).String()))
	}
	if msg.Type != "" {
		fields = append(fields, fmt.Sprintf("[%s]", colorForString(au, msg.Type).String()))
	}
	if msg.Code != "" {
		code := colorForString(au, msg.Code).String()
		if msg.RelayedCode != "" && msg.RelayedCode != msg.Code {
			code += " -> " + colorForString(au, msg.RelayedCode).String()
		}
		fields = append(fields, fmt.Sprintf("[%s]", code))
	}
	if msg.Value != nil {
		fields = append(fields, fmt.Sprintf("[value=%d]", *msg.Value))
	}
	if msg.Op != "" {
		fields = append(fields, fmt.Sprintf("[op=%s]", msg.Op))
	}
	if msg.Error != "" {
		fields = append(fields, fmt.Sprintf("[error=%s]", au.Red(msg.Error).String()))
	}
	if logLevel >= logger.DebugLvl && msg.Caller != "" {
		x := strings.SplitN(msg.Caller, ":", 2)
		if len(x) == 2 {
			fields = append(fields, fmt.Sprintf("(%s:%s)", colorForString(au, x[0]).String(), x[1]))
		}
	}

	m := au.Reset(msg.Msg).Colorize(msgColor).String()
	if len(fields) == 0 {
		return fmt.Sprintf("%s %s", timestamp, m)
	}

	padding := msgColumn - rawStringLen(m)
	if padding < 1 {
		padding = 1
	}
	return fmt.Sprintf("%s %s%s%s", timestamp, m, strings.Repeat(" ", padding), strings.Join(fields, " "))
}

// renderLogs prints messages in the background until returned stop is called,
// messages already buffered at that point are printed before stop returns
func renderLogs(w io.Writer, au aurora.Aurora, logLevel int, messages <-chan []byte) (stop func()) {
	var quit = make(chan struct{})
	var done = make(chan struct{})

	render := func(data []byte) {
		msg, err := unpack(data)
		if err != nil {
			fmt.Fprintf(w, "%s\n", string(data))
			return
		}
		m := prepareString(msg, au, logLevel)
		if m != "" {
			fmt.Fprintf(w, "%s\n", m)
		}
	}

	go func() {
		defer close(done)
		for {
			select {
			case data := <-messages:
				render(data)
			case <-quit:
				for {
					select {
					case data := <-messages:
						render(data)
					default:
						return
					}
				}
			}
		}
	}()

	return func() {
		close(quit)
		<-done
	}
}
