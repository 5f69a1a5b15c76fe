/*
 * MIT License
 *
 * Copyright (c) 2026 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package dbquery is a domain service fronting a MySQL connection pool
// through gorm, the way a single "database gateway" actor would own a
// *gorm.DB so every other service reaches storage only by message
// rather than holding its own connection.
package dbquery

import (
	"fmt"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sabouaram/moonrt/buffer"
	"github.com/sabouaram/moonrt/message"
	"github.com/sabouaram/moonrt/service"
)

type svc struct {
	db *gorm.DB
}

// New builds an uninitialized dbquery service; Init's config argument
// is the MySQL DSN to dial.
func New() service.Service { return &svc{} }

func (s *svc) Init(ctx service.Context, config []byte) bool {
	dsn := string(config)
	if dsn == "" {
		return false
	}
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return false
	}
	s.db = db
	return true
}

// Dispatch treats msg.Header as a raw SELECT statement, scans every
// result row into strings in column order, and joins rows with "\n",
// columns with ",". It refuses anything that isn't a SELECT, since this
// service has no business running mutations on behalf of a message body
// nobody signed.
func (s *svc) Dispatch(ctx service.Context, msg *message.Message) {
	stmt := strings.TrimSpace(string(msg.Header))
	if !strings.HasPrefix(strings.ToUpper(stmt), "SELECT") {
		ctx.Send(msg.Sender, nil, []byte("rejected"), msg.SessionID, message.Error)
		return
	}

	rows, err := s.db.Raw(stmt).Rows()
	if err != nil {
		ctx.Send(msg.Sender, nil, []byte(err.Error()), msg.SessionID, message.Error)
		return
	}
	defer rows.Close()

	cols, _ := rows.Columns()
	var out strings.Builder
	vals := make([]interface{}, len(cols))
	ptrs := make([]interface{}, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			continue
		}
		if out.Len() > 0 {
			out.WriteByte('\n')
		}
		for i, v := range vals {
			if i > 0 {
				out.WriteByte(',')
			}
			out.WriteString(toString(v))
		}
	}

	ctx.Send(msg.Sender, buffer.NewFromBytes([]byte(out.String())), []byte("rows"), msg.SessionID, message.Text)
}

func toString(v interface{}) string {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case nil:
		return ""
	default:
		return strings.ReplaceAll(fmt.Sprint(t), ",", ";")
	}
}

func (s *svc) OnExit(ctx service.Context) {
	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
