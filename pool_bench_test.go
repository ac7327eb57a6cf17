package pool

import (
	"context"
	"testing"
)

func BenchmarkCheckoutCheckin(b *testing.B) {
	p := New[int](WithMaxSize(4), WithDialer(fakeDialer{}))
	ctx := context.Background()

	b.ResetTimer()

	b.Run("same thread", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			c, err := p.Checkout(ctx, 1, "127.0.0.1:27017", 0)
			if err != nil {
				b.Fatal(err)
			}
			if err := p.Checkin(c); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("rotating threads", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			c, err := p.Checkout(ctx, i%4, "127.0.0.1:27017", 0)
			if err != nil {
				b.Fatal(err)
			}
			if err := p.Checkin(c); err != nil {
				b.Fatal(err)
			}
		}
	})
}
