// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chatling Contributors

package plugin

import (
	"regexp"
)

// urlLocator matches locators that name a remote source: scheme, host
// name / localhost / dotted IP, optional port and path. Anything else is
// treated as a local file path.
var urlLocator = regexp.MustCompile(`(?i)^(?:http|ftp)s?://` +
	`(?:(?:[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?\.)+(?:[a-z]{2,6}\.?|[a-z0-9-]{2,}\.?)|` +
	`localhost|` +
	`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})` +
	`(?::\d+)?` +
	`(?:/?|[/?]\S+)$`)

// AddLocator resolves a locator string to a plugin and registers it.
// URL-shaped locators route to the remote-source loader, everything else
// to the local-file loader. Both loaders are extension points and do not
// resolve anything yet, so a failed resolution surfaces as a
// PLUGIN_LOAD_FAILED error.
func (r *Registry) AddLocator(locator string) error {
	var (
		p   Plugin
		err error
	)
	if urlLocator.MatchString(locator) {
		p, err = r.loadFromRemote(locator)
	} else {
		p, err = r.loadFromFile(locator)
	}
	if err != nil || p == nil {
		return ErrPluginLoad(locator)
	}

	r.Add(p)
	return nil
}

// loadFromFile loads a plugin from a local file path.
// TODO: resolve Go plugin archives once the build pipeline produces them.
func (r *Registry) loadFromFile(path string) (Plugin, error) {
	r.log.Info("loading plugin from local file", "path", path)
	return nil, nil
}

// loadFromRemote loads a plugin from a remote source URL.
func (r *Registry) loadFromRemote(url string) (Plugin, error) {
	r.log.Info("loading plugin from remote source", "url", url)
	return nil, nil
}
