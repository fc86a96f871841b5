// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2021 UPI Core Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package background

// Process - a long-running task
//
// Run must return promptly after the shutdown channel is closed
type Process interface {
	Run(args interface{}, shutdown <-chan struct{})
}

// Processes - list of processes to start
type Processes []Process

// single process control channels
type shutdown struct {
	shutdown chan struct{}
	finished chan struct{}
}

// T - handle to a started set of background processes
type T struct {
	s []shutdown
}

// Start - run a set of background processes
func Start(processes Processes, args interface{}) *T {

	register := new(T)
	register.s = make([]shutdown, len(processes))

	for i, p := range processes {
		s := make(chan struct{})
		f := make(chan struct{})
		register.s[i].shutdown = s
		register.s[i].finished = f
		go func(p Process) {
			defer close(f)
			p.Run(args, s)
		}(p)
	}
	return register
}

// Stop - shut down the processes and wait for them to finish
func (t *T) Stop() {
	if nil == t {
		return
	}

	for _, s := range t.s {
		close(s.shutdown)
	}

	for _, s := range t.s {
		<-s.finished
	}
}
