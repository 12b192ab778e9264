package config

const (
	defaultVideoRoot                 = "/video_files"
	defaultWorkDir                   = "work"
	defaultLogDir                    = "~/.local/share/hopper/logs"
	defaultWriteWaitingThreshold     = 30
	defaultMinFreeMB                 = 1000
	defaultInputSubdir               = "input"
	defaultOutputSubdir              = "output"
	defaultSuccessfulOriginalsSubdir = "originals"
	defaultFailedOriginalsSubdir     = "failed"
	defaultOutputExtension           = ".mkv"
	defaultToolBinary                = "transcode-video"
	defaultLogFormat                 = "console"
	defaultLogLevel                  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		VideoRoot:                 defaultVideoRoot,
		WorkDir:                   defaultWorkDir,
		LogDir:                    defaultLogDir,
		WriteWaitingThreshold:     defaultWriteWaitingThreshold,
		MinFreeMB:                 defaultMinFreeMB,
		RequireEnglish:            false,
		InputSubdir:               defaultInputSubdir,
		OutputSubdir:              defaultOutputSubdir,
		SuccessfulOriginalsSubdir: defaultSuccessfulOriginalsSubdir,
		FailedOriginalsSubdir:     defaultFailedOriginalsSubdir,
		OutputExtension:           defaultOutputExtension,
		ToolBinary:                defaultToolBinary,
		GlobalArgs:                "",
		ConversionOptions:         map[string]string{DefaultsKey: ""},
		LogFormat:                 defaultLogFormat,
		LogLevel:                  defaultLogLevel,
	}
}
