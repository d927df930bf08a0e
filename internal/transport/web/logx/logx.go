package logx

import (
	"fmt"
	"log"
	"strings"
)

// Маленький помощник для структурных строк lvl=... req_id=... op=...
// поверх стандартного *log.Logger (см. mw.Logging).

func Debug(l *log.Logger, reqID, op, msg string, kv ...any) {
	l.Println(line("debug", reqID, op, msg, kv...))
}

func Info(l *log.Logger, reqID, op, msg string, kv ...any) {
	l.Println(line("info", reqID, op, msg, kv...))
}

func Warn(l *log.Logger, reqID, op, msg string, kv ...any) {
	l.Println(line("warn", reqID, op, msg, kv...))
}

func Error(l *log.Logger, reqID, op, msg string, err error, kv ...any) {
	s := line("error", reqID, op, msg, kv...)
	if err != nil {
		s += fmt.Sprintf(" err=%q", err.Error())
	}
	l.Println(s)
}

func line(lvl, reqID, op, msg string, kv ...any) string {
	var sb strings.Builder
	sb.WriteString("lvl=" + lvl)
	if reqID != "" {
		sb.WriteString(" req_id=" + reqID)
	}
	if op != "" {
		sb.WriteString(" op=" + op)
	}
	sb.WriteString(fmt.Sprintf(" msg=%q", msg))
	// пары ключ-значение; непарный хвост игнорируем
	for i := 0; i+1 < len(kv); i += 2 {
		sb.WriteString(fmt.Sprintf(" %v=%v", kv[i], kv[i+1]))
	}
	return sb.String()
}
