package env

// Prefix is the env variable prefix for all fxvol flags
const Prefix = "FXVOL"
