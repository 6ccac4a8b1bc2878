package sharedptr_test

import (
	"fmt"

	"github.com/vanaluk/sharedptr"
)

func Example() {
	owner := sharedptr.New(42)
	fmt.Println("owners:", owner.UseCount())

	weak := owner.Downgrade()

	locked := weak.Lock()
	fmt.Println("locked:", locked.Value(), "owners:", owner.UseCount())
	locked.Release()

	owner.Release()
	fmt.Println("expired:", weak.Expired(), "lock:", weak.Lock())
	weak.Release()

	// Output:
	// owners: 1
	// locked: 42 owners: 2
	// expired: true lock: <nil>
}
