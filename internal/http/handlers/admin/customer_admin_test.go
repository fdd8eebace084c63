package admin

import "testing"

func TestAllowedCustomerRole(t *testing.T) {
	cases := []struct {
		role string
		want bool
	}{
		{role: "customer", want: true},
		{role: "admin", want: true},
		{role: "superuser", want: false},
		{role: "", want: false},
	}
	for _, item := range cases {
		if got := allowedCustomerRole(item.role); got != item.want {
			t.Fatalf("role %q: want %v, got %v", item.role, item.want, got)
		}
	}
}
