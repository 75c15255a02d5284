package user

import "fmt"

// User is a buyer. Users compare by value: two users with the same name and
// age are the same user, so User can be used directly as a map key.
type User struct {
	name string
	age  int
}

// New returns a User with the given name and age.
func New(name string, age int) User {
	return User{name: name, age: age}
}

// Name returns the user's name.
func (u User) Name() string { return u.name }

// Age returns the user's age in whole years.
func (u User) Age() int { return u.age }

// String renders the user for diagnostics.
func (u User) String() string {
	return fmt.Sprintf("User{name=%s, age=%d}", u.name, u.age)
}
