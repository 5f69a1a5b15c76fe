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

package dbquery_test

import (
	"github.com/sabouaram/moonrt/message"
	"github.com/sabouaram/moonrt/services/dbquery"
	"github.com/sabouaram/moonrt/services/svctest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("dbquery service", func() {
	It("fails Init when given an empty DSN", func() {
		svc := dbquery.New()
		ctx := svctest.NewFakeContext(1)
		Expect(svc.Init(ctx, nil)).To(BeFalse())
	})

	It("rejects a non-SELECT statement without ever touching the database", func() {
		// A nil *gorm.DB is fine here: the statement is rejected before
		// svc.db is ever dereferenced, since Init was never called.
		svc := dbquery.New()
		ctx := svctest.NewFakeContext(1)

		svc.Dispatch(ctx, &message.Message{Sender: 2, Header: []byte("DELETE FROM users")})
		sent, ok := ctx.Last()
		Expect(ok).To(BeTrue())
		Expect(sent.Type).To(Equal(message.Error))
		Expect(string(sent.Header)).To(Equal("rejected"))
	})
})
