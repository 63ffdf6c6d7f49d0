// Package runner выполняет день целиком: программа, входные данные, pipeline.
//
// Runner связывает источники (source), ядро (engine) и необязательные
// побочные эффекты: историю runs (repo), события (mq) и метрики.
//
// Использование:
//
//	r := runner.New(runner.Config{
//	    Year:     2022,
//	    Programs: source.NewProgramLoader("src", ""),
//	    Inputs:   fetcher,
//	    Store:    runRepo,    // опционально
//	    Events:   publisher,  // опционально
//	    Out:      os.Stdout,
//	    Logger:   logger,
//	})
//
//	run, err := r.Run(ctx, runner.Request{Day: 1})
package runner
