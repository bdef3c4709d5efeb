// Package adb implements the host collaborators on top of the adb command
// line tool.
//
// # Commands
//
// Launching:
//   - Open: am start -a <action> -d <uri> -p <package> [-n <component>] [--es k v] [-f 0x10008000]
//   - OpenDefault: monkey -p <package> -c android.intent.category.LAUNCHER 1
//   - ForceStop: am force-stop <package>
//
// Observing and driving the UI:
//   - ForegroundIdentity: dumpsys activity activities, then dumpsys window
//   - SendKey: input keyevent <code>
//   - TypeText: input text <text>
//   - FindAndClick: uiautomator dump, then input tap at the centre of the match
//   - IsActive: get-state
//
// Package queries:
//   - IsInstalled: pm path <package>
//
// Every command runs with the caller's context, so a cancelled launch also
// kills the adb process it is waiting on.
package adb
