// Package pacer inserts randomized pauses between sequential network calls.
//
//	p, err := pacer.New(3*time.Second, 10*time.Second)
//	for _, call := range calls {
//		if _, err := p.Wait(ctx); err != nil {
//			return err
//		}
//		call()
//	}
//
// Delays fall strictly between calls: the first Wait never sleeps.
package pacer
