package utils

// SyncStashArt is the banner shown by the CLI.
const SyncStashArt = `
   _____                  _____ __              __
  / ___/__  ______  _____/ ___// /_____ _______/ /_
  \__ \/ / / / __ \/ ___/\__ \/ __/ __ '/ ___/ __ \
 ___/ / /_/ / / / / /__ ___/ / /_/ /_/ (__  ) / / /
/____/\__, /_/ /_/\___//____/\__/\__,_/____/_/ /_/
     /____/`
