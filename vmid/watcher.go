// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2021 UPI Core Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vmid

import (
	"github.com/fsnotify/fsnotify"

	"github.com/upicore/upicored/background"
)

// watches the provisioned key file and rotates the sealing key
type rotationWatcher struct {
	codec   *Codec
	watcher *fsnotify.Watcher
}

// NewRotationWatcher - a background process that reloads the key when
// the secret file is rewritten
//
// rotation deliberately invalidates all outstanding tokens: they fail
// authentication under the new key
func (c *Codec) NewRotationWatcher() (background.Process, error) {
	watcher, err := fsnotify.NewWatcher()
	if nil != err {
		return nil, err
	}
	if err := watcher.Add(c.keyFile); nil != err {
		watcher.Close()
		return nil, err
	}

	return &rotationWatcher{
		codec:   c,
		watcher: watcher,
	}, nil
}

func (w *rotationWatcher) Run(args interface{}, shutdown <-chan struct{}) {
	log := w.codec.log
	log.Infof("watching key file: %s", w.codec.keyFile)
	defer w.watcher.Close()

	for {
		select {
		case event := <-w.watcher.Events:
			if 0 != event.Op&(fsnotify.Remove|fsnotify.Rename) {
				log.Errorf("key file removed: %s", event.Name)
				return
			}
			if 0 != event.Op&(fsnotify.Write|fsnotify.Create) {
				if err := w.codec.reloadKey(); nil != err {
					log.Errorf("key rotation failed: %s", err)
				} else {
					log.Warn("sealing key rotated")
				}
			}

		case err := <-w.watcher.Errors:
			log.Errorf("watcher error: %s", err)

		case <-shutdown:
			log.Info("shutting down…")
			return
		}
	}
}
