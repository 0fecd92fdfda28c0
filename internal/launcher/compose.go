package launcher

import (
	"path/filepath"
	"strings"

	"github.com/neosplus/neosplus-launcher/internal/neospath"
)

// SteamAppID is NeosVR's Steam application id.
const SteamAppID = "740250"

// Command is a fully composed process invocation.
type Command struct {
	Executable string
	Args       string
	Dir        string
}

// Compose builds the invocation that starts Neos with NeosPlus loaded.
//
// Direct mode runs neos.exe with -LoadAssembly "<dll>". Steam mode runs
// "sh -c" around xdg-open on a steam://run URI. The argument string passes
// through sh and then through Steam's own argument parser, so in that mode
// the DLL path is made relative to the install directory and every forward
// slash in it and in extraArgs becomes a doubled backslash. The whole steam
// argument list is single-quoted inside the double-quoted sh script.
func Compose(installPath string, steamRun bool, extraArgs string) Command {
	dllPath := neospath.ModDLL(installPath)
	extra := strings.TrimSpace(extraArgs)

	var b strings.Builder
	cmd := Command{Dir: installPath}

	if steamRun {
		cmd.Executable = "sh"
		rel := filepath.ToSlash(dllPath)
		rel = strings.TrimPrefix(rel, filepath.ToSlash(filepath.Clean(installPath))+"/")
		b.WriteString(`-c "xdg-open steam://run/` + SteamAppID + `//'-LoadAssembly `)
		b.WriteString(escapeSlashes(rel))
	} else {
		cmd.Executable = neospath.Executable(installPath)
		b.WriteString(`-LoadAssembly "` + dllPath + `"`)
	}

	if extra != "" {
		if steamRun {
			extra = escapeSlashes(extra)
		}
		b.WriteString(" " + extra)
	}

	if steamRun {
		b.WriteString(`'"`)
	}

	cmd.Args = b.String()
	return cmd
}

func escapeSlashes(s string) string {
	return strings.ReplaceAll(s, "/", `\\`)
}
