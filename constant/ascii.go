package constant

// AsciiArtLogo is the application's banner shown in the help output.
const AsciiArtLogo = `
 _ _     _             _         _
| (_)___| |_ ___ _ __ | |_ _   _(_)
| | / __| __/ _ \ '_ \| __| | | | |
| | \__ \ ||  __/ | | | |_| |_| | |
|_|_|___/\__\___|_| |_|\__|\__,_|_|
`
