package stagemap_test

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/stagemap"
)

// A preprocessing stage fills tuples slot by slot; a compute stage drains
// them in key order once they are complete.
func Example() {
	ctx := context.Background()

	area, err := stagemap.OrderedMap[int64](2).
		Named("input", "target").
		Capacity(8).
		Build()
	if err != nil {
		panic(err)
	}
	defer area.Close()

	var g errgroup.Group

	// Producer: stage keys in reverse order, split across two puts.
	g.Go(func() error {
		for key := int64(2); key >= 0; key-- {
			err := area.Put(ctx, key, stagemap.ByName(map[string]stagemap.Value{
				"input": stagemap.Bytes(fmt.Sprintf("in-%d", key)),
			}))
			if err != nil {
				return err
			}
			err = area.Put(ctx, key, stagemap.ByName(map[string]stagemap.Value{
				"target": stagemap.Bytes(fmt.Sprintf("out-%d", key)),
			}))
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		panic(err)
	}

	// Key-less gets come back in ascending key order.
	for i := 0; i < 3; i++ {
		key, res, err := area.GetAny(ctx)
		if err != nil {
			panic(err)
		}
		input, _ := res.Named("input")
		fmt.Printf("key=%d input=%s\n", key, input)
	}

	// Output:
	// key=0 input=in-0
	// key=1 input=in-1
	// key=2 input=in-2
}
