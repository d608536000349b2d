//go:build linux

package sysutil

import (
	"fmt"
	"os/user"
	"strconv"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/unix"
)

// DropPrivileges switches to the daemon (or nobody) user after hardware
// setup. A no-op when not running as root.
func DropPrivileges() error {
	if unix.Getuid() != 0 {
		log.Info().Int("uid", unix.Getuid()).Msg("privileges already dropped")
		return nil
	}

	u, err := user.Lookup("daemon")
	if err != nil {
		if u, err = user.Lookup("nobody"); err != nil {
			return fmt.Errorf("no daemon or nobody user to drop privileges to: %w", err)
		}
	}

	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return fmt.Errorf("parse uid %q: %w", u.Uid, err)
	}
	gid, err := strconv.Atoi(u.Gid)
	if err != nil {
		return fmt.Errorf("parse gid %q: %w", u.Gid, err)
	}

	log.Info().Str("user", u.Username).Int("uid", uid).Int("gid", gid).
		Msg("dropping privileges after hardware initialization")

	if err := unix.Setgroups([]int{}); err != nil {
		return fmt.Errorf("clear supplementary groups: %w", err)
	}
	// GID first: once the UID drops we can no longer change groups.
	if err := unix.Setgid(gid); err != nil {
		return fmt.Errorf("set gid %d: %w", gid, err)
	}
	if err := unix.Setuid(uid); err != nil {
		return fmt.Errorf("set uid %d: %w", uid, err)
	}

	if unix.Getuid() == 0 {
		return fmt.Errorf("still running as root after privilege drop")
	}
	log.Info().Str("user", u.Username).Msg("privileges dropped")
	return nil
}
