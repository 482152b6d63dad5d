// Package schedule decides when the next standup topic goes out.
//
// A Schedule is anything that can answer "when is the next fire after t".
// Parse builds one from a cron expression: five fields (minute, hour, day of
// month, month, day of week), an optional leading seconds field, the
// @hourly/@daily/@weekly style descriptors, @every <duration>, and an
// optional CRON_TZ= or TZ= prefix selecting the time zone.
//
// Scheduler drives a Job from a Schedule:
//
//	sched, err := schedule.Parse("0 9 * * 1-5")
//	if err != nil {
//		return err
//	}
//	s, err := schedule.New(sched, dispatcher.Run, schedule.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	return s.Run(ctx)
//
// Run returns ctx.Err() when ctx is cancelled and ErrScheduleExhausted when the
// schedule can never fire again (for example "0 0 30 2 *").
package schedule
