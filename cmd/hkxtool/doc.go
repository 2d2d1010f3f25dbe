// Command hkxtool analyzes, extracts, and converts Havok HKX animation
// containers for Skyrim SE porting work.
//
// The analyze command classifies container headers and scans for Havok class
// signatures; extract drives WitchyBND over the configured binder archives;
// convert runs the hkxcmd / HavokBehaviorPostProcess chain; status reports
// tool and environment health.
package main
