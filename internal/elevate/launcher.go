// Package elevate relaunches a program with administrative rights and
// returns without waiting for it.
package elevate

type Launcher interface {
	Launch(exe string, args []string) error
}
