package factorial_test

import (
	"context"
	"fmt"
	"time"

	"github.com/agbru/factcalc/internal/factorial"
)

func ExampleComputeFactorial() {
	out, err := factorial.ComputeFactorial(context.Background(), 5, 5000)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(out.Kind, out)
	// Output: factorial 120
}

func ExamplePartition() {
	for _, r := range factorial.Partition(10, 3) {
		fmt.Println(r)
	}
	// Output:
	// [1, 4]
	// [5, 7]
	// [8, 10]
}

func ExampleEngine_Start() {
	engine := factorial.New(factorial.WithStrategy(factorial.StrategyCoordinated))
	c, err := engine.Start(context.Background(), factorial.Request{Argument: 25, Timeout: 5 * time.Second})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(c.Wait())
	// Output: 15511210043330985984000000
}
