package worker

import (
	"io/ioutil"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/0xMailMan/violette-easya-sub000/cmd/utils"
	"github.com/0xMailMan/violette-easya-sub000/log"
	"github.com/0xMailMan/violette-easya-sub000/params"
)

// WatchEndpointsDynamically watch the configured endpoints file and
// swap the ledger connection targets without a restart
func WatchEndpointsDynamically() {
	ledgerConfig := params.GetLedgerConfig()
	if ledgerConfig == nil || ledgerConfig.WatchEndpoints == "" {
		log.Debug("no endpoints file to watch")
		return
	}
	endpointsFile := ledgerConfig.WatchEndpoints

	watch, err := fsnotify.NewWatcher()
	if err != nil {
		log.Error("fsnotify.NewWatcher failed", "err", err)
		return
	}

	err = watch.Add(endpointsFile)
	if err != nil {
		log.Error("watch.Add endpoints file failed", "err", err, "file", endpointsFile)
		return
	}

	utils.TopWaitGroup.Add(1)
	go startEndpointsWatcher(watch, endpointsFile)
}

func startEndpointsWatcher(watch *fsnotify.Watcher, endpointsFile string) {
	log.Info("start fsnotify watch", "file", endpointsFile)
	defer func() {
		log.Info("stop fsnotify watch")
		_ = watch.Close()
		utils.TopWaitGroup.Done()
	}()

	ops := []fsnotify.Op{
		fsnotify.Create,
		fsnotify.Write,
	}

	for {
		select {
		case <-utils.CleanupChan:
			return
		case ev, ok := <-watch.Events:
			if !ok {
				continue
			}
			log.Trace("fsnotify watch event", "event", ev)
			for _, op := range ops {
				if ev.Op&op == op {
					reloadEndpoints(endpointsFile)
					break
				}
			}
		case werr, ok := <-watch.Errors:
			if !ok {
				continue
			}
			log.Warn("fsnotify watch error", "err", werr)
		}
	}
}

func reloadEndpoints(endpointsFile string) {
	body, err := ioutil.ReadFile(endpointsFile)
	if err != nil {
		log.Warn("read endpoints file failed", "err", err, "file", endpointsFile)
		return
	}
	var endpoints []string
	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		endpoints = append(endpoints, line)
	}
	if len(endpoints) == 0 {
		log.Warn("endpoints file has no endpoints", "file", endpointsFile)
		return
	}
	conn.SetEndpoints(endpoints)
	log.Info("reload ledger endpoints", "count", len(endpoints))
}
