package worktodo

import (
	"fmt"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"

	"github.com/primesearch/goowl/io/file"
)

var log = logrus.WithField("prefix", "worktodo")

var (
	tasksClaimed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "goowl_worktodo_tasks_claimed_total",
		Help: "The total number of tasks moved from the shared worktodo file.",
	})
	claimRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "goowl_worktodo_claim_retries_total",
		Help: "The total number of claim rollbacks caused by a concurrent change of the shared worktodo file.",
	})
)

// FileName returns the per-instance worktodo file name.
func FileName(instance int) string {
	return fmt.Sprintf("worktodo-%d.txt", instance)
}

// bestTask returns the best parseable assignment in the file: the smallest
// CERT if any exists, else the smallest PRP/LL. Ties keep the earliest line.
func bestTask(path string) (*Task, error) {
	lines, err := file.ReadLines(path)
	if err != nil {
		return nil, err
	}
	var best *Task
	for _, line := range lines {
		task := parse(line)
		if task == nil {
			continue
		}
		if best == nil ||
			(best.Kind != Cert && task.Kind == Cert) ||
			((best.Kind != Cert || task.Kind == Cert) && task.Exponent < best.Exponent) {
			best = task
		}
	}
	return best, nil
}

// GetTask returns the next assignment for an instance. The local
// worktodo-<instance> file is consulted first; when it holds nothing, one
// assignment is moved over from <masterDir>/worktodo.txt.
//
// The move avoids filesystem locking: sample the shared file's size, append
// the chosen line to the local file, then rewrite the shared file without
// that line only if its size still matches the sample. A size change means
// another instance got there first; the local append is rolled back and the
// whole sequence retried once. The size check only detects whole-line
// appends and deletions, which is what every conforming writer does.
func GetTask(masterDir, localDir string, instance int) (*Task, error) {
	localWork := filepath.Join(localDir, FileName(instance))

	if task, err := bestTask(localWork); err != nil {
		return nil, err
	} else if task != nil {
		return task, nil
	}

	if masterDir == "" {
		return nil, nil
	}
	shared := filepath.Join(masterDir, "worktodo.txt")

	for retry := 0; retry < 2; retry++ {
		initialSize := file.Size(shared)
		if initialSize == 0 {
			return nil, nil
		}

		task, err := bestTask(shared)
		if err != nil || task == nil {
			return nil, err
		}

		if err := file.AppendLine(localWork, task.Line); err != nil {
			return nil, err
		}

		ok, err := file.DeleteLineChecked(shared, task.Line, initialSize)
		if err != nil {
			return nil, err
		}
		if ok {
			tasksClaimed.Inc()
			return task, nil
		}

		// The shared file changed underneath us. Undo the local append,
		// attempting twice, then start over.
		claimRetries.Inc()
		found, err := file.DeleteLine(localWork, task.Line)
		if err == nil && !found {
			found, err = file.DeleteLine(localWork, task.Line)
		}
		if err != nil {
			return nil, err
		}
		if !found {
			log.Errorf("Could not roll back %q from %s", task.Line, localWork)
			return nil, nil
		}
	}

	log.Errorf("Could not extract a task from %s", shared)
	return nil, nil
}

// DeleteTask removes a completed task's line from the instance's local
// worktodo file. Tasks that did not originate in a worktodo file need no
// deletion.
func DeleteTask(localDir string, instance int, task *Task) (bool, error) {
	if task.Line == "" {
		return true, nil
	}
	return file.DeleteLine(filepath.Join(localDir, FileName(instance)), task.Line)
}
