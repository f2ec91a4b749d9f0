package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestCacheTTL(t *testing.T) {
	Convey("Given a cache with a one minute TTL and a fake clock", t, func() {
		ctx := context.Background()
		clock := newFakeClock()
		c := NewInMemory[string](WithTTL(time.Minute), WithClock(clock.Now))

		c.Set(ctx, "fide_1", "record")

		Convey("When read within the TTL", func() {
			clock.Advance(time.Minute)
			v, ok := c.Get(ctx, "fide_1")

			Convey("Then the value is returned", func() {
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, "record")
			})
		})

		Convey("When read after the TTL", func() {
			clock.Advance(time.Minute + time.Millisecond)
			_, ok := c.Get(ctx, "fide_1")

			Convey("Then it is a miss and the entry is evicted", func() {
				So(ok, ShouldBeFalse)
				So(c.Size(), ShouldEqual, 0)
			})
		})

		Convey("When keys differ only in case", func() {
			_, ok := c.Get(ctx, "FIDE_1")

			Convey("Then they are distinct", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When deleting", func() {
			c.Delete(ctx, "fide_1")
			c.Delete(ctx, "missing")

			Convey("Then the entry is gone", func() {
				_, ok := c.Get(ctx, "fide_1")
				So(ok, ShouldBeFalse)
				So(c.Size(), ShouldEqual, 0)
			})
		})
	})
}

func TestCacheMaxSize(t *testing.T) {
	Convey("Given a cache bounded to two entries", t, func() {
		ctx := context.Background()
		clock := newFakeClock()
		c := NewInMemory[int](WithMaxSize(2), WithClock(clock.Now), WithTTL(time.Hour))

		c.Set(ctx, "a", 1)
		clock.Advance(time.Second)
		c.Set(ctx, "b", 2)
		clock.Advance(time.Second)

		Convey("When a third key is stored", func() {
			c.Set(ctx, "c", 3)

			Convey("Then the oldest entry is evicted", func() {
				So(c.Size(), ShouldEqual, 2)
				_, ok := c.Get(ctx, "a")
				So(ok, ShouldBeFalse)
				v, ok := c.Get(ctx, "c")
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 3)
			})
		})

		Convey("When an existing key is overwritten", func() {
			c.Set(ctx, "a", 10)

			Convey("Then nothing is evicted", func() {
				So(c.Size(), ShouldEqual, 2)
				v, _ := c.Get(ctx, "a")
				So(v, ShouldEqual, 10)
			})
		})
	})
}

func TestCacheGetOrLoad(t *testing.T) {
	Convey("Given an empty cache", t, func() {
		ctx := context.Background()
		c := NewInMemory[string]()

		Convey("When loading the same key twice", func() {
			var calls atomic.Int32
			load := func(context.Context) (string, error) {
				calls.Add(1)
				return fmt.Sprintf("value-%d", calls.Load()), nil
			}
			first, hit1, err1 := c.GetOrLoad(ctx, "k", load)
			second, hit2, err2 := c.GetOrLoad(ctx, "k", load)

			Convey("Then the loader runs once and both calls see the same value", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(hit1, ShouldBeFalse)
				So(hit2, ShouldBeTrue)
				So(second, ShouldEqual, first)
				So(calls.Load(), ShouldEqual, 1)
			})
		})

		Convey("When the loader fails", func() {
			boom := errors.New("boom")
			_, _, err := c.GetOrLoad(ctx, "k", func(context.Context) (string, error) { return "", boom })

			Convey("Then the error is returned and nothing is stored", func() {
				So(errors.Is(err, boom), ShouldBeTrue)
				So(c.Size(), ShouldEqual, 0)
			})
		})

		Convey("When the caller gives up during a load", func() {
			release := make(chan struct{})
			stored := make(chan struct{})
			load := func(context.Context) (string, error) {
				<-release
				return "late", nil
			}
			cctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
			defer cancel()

			_, _, err := c.GetOrLoad(cctx, "k", load)
			go func() {
				close(release)
				for {
					if _, ok := c.Get(ctx, "k"); ok {
						close(stored)
						return
					}
					time.Sleep(time.Millisecond)
				}
			}()

			Convey("Then the caller sees its ctx error and the load still fills the cache", func() {
				So(errors.Is(err, context.DeadlineExceeded), ShouldBeTrue)
				select {
				case <-stored:
				case <-time.After(time.Second):
					t.Fatal("load did not complete")
				}
				v, ok := c.Get(ctx, "k")
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, "late")
			})
		})

		Convey("When many goroutines load the same key", func() {
			var calls atomic.Int32
			release := make(chan struct{})
			load := func(context.Context) (string, error) {
				calls.Add(1)
				<-release
				return "shared", nil
			}

			var wg sync.WaitGroup
			results := make([]string, 16)
			for i := range results {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					v, _, _ := c.GetOrLoad(ctx, "k", load)
					results[i] = v
				}(i)
			}
			time.Sleep(20 * time.Millisecond)
			close(release)
			wg.Wait()

			Convey("Then every caller gets the value", func() {
				for _, v := range results {
					So(v, ShouldEqual, "shared")
				}
				So(calls.Load(), ShouldBeLessThanOrEqualTo, 16)
				So(calls.Load(), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})
	})
}

func TestCacheConcurrentAccess(t *testing.T) {
	Convey("Given a cache shared by many goroutines", t, func() {
		ctx := context.Background()
		c := NewInMemory[int](WithMaxSize(0))

		var wg sync.WaitGroup
		for g := 0; g < 8; g++ {
			wg.Add(1)
			go func(g int) {
				defer wg.Done()
				for i := 0; i < 100; i++ {
					key := fmt.Sprintf("k%d", i)
					c.Set(ctx, key, g)
					c.Get(ctx, key)
				}
			}(g)
		}
		wg.Wait()

		Convey("Then the size reflects the distinct keys", func() {
			So(c.Size(), ShouldEqual, 100)
		})
	})
}
