// Package logger provides the logging façade. A Logger dispatches
// records to a registry of named handlers; each handler carries its own
// severity threshold, filter, and output format, so the same record can
// reach the console, a rotating file, syslog, and a remote collector in
// different shapes.
//
//	reg := registry.New(registry.Config{})
//	reg.Create(registry.HandlerSpec{
//		Name:  "app_log",
//		Level: core.DebugLevel,
//		Kind:  registry.KindFile,
//		Path:  "/var/log/app.log",
//	})
//
//	log := logger.NewBuilder().WithRegistry(reg).Build()
//	log.Info("service started", logger.String("version", "1.4.2"))
//
// The handler set can also be loaded wholesale from a YAML or JSON
// document via Registry().LoadFile. Package-level functions use a
// default logger with a single console handler.
package logger
