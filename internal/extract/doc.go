// Package extract turns Belgian annual-account CSV exports into per-year
// financial records.
//
// The package is pure: it performs no I/O, returns no errors and keeps no
// state between documents. Anything that cannot be parsed degrades to a nil
// field, and anything that parses but looks inconsistent is reported as a
// validation warning on the record.
//
// # Pipeline
//
// One [Document] is processed in a single pass:
//
//  1. The text is split into lines and each line into cells ([SplitLine]).
//  2. Header rows containing "Boekjaar" fix the current fiscal-year column
//     for the rest of the document.
//  3. The first cell matching an accounting code in the [CodeTable] selects a
//     [Field]. Its value is resolved by an ordered list of [Strategy] values
//     and written under the conflict policy.
//  4. Dutch label rules fill fields that are still empty.
//  5. [Validate] attaches cross-field consistency warnings.
//
// # Scaling
//
// Source exports have been observed both in full euro and in thousands of
// euro. The [Normalizer] leaves amounts untouched by default ([ScaleUnits]);
// [ScaleThousands] multiplies every monetary value by 1000. The choice applies
// to every monetary field of every record built by one [Builder].
//
// # Concurrency
//
// A [Builder] is immutable after construction and may be shared by goroutines
// building different documents.
package extract
