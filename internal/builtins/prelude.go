// Package builtins implements bnt's reserved built-in function catalogue
// (§6.2), grounded on original_source/src/defs/builtin/builtinImplementations.cpp
// and the BuiltinDefinitions::builtinDefinitions + sourceStream splice in
// original_source/src/main.cpp. The donor prepends a block of plain bnt
// function *declarations* to the user's source before lexing, so every
// built-in is just an ordinary function as far as the parser and checker
// are concerned, flagged built-in only by name. This package keeps the
// same idea but splices the built-ins in at the token level instead of the
// text level (see parser.ParseProgramWithPrelude) so diagnostics in user
// code never get offset by however many lines the catalogue occupies.
package builtins

// Source is the bnt-syntax declaration text for every reserved built-in.
// Every body is a dummy `null` literal: built-in bodies are never
// type-checked or evaluated (the checker marks them IsBuiltin and skips
// checking them; the evaluator dispatches by name before it would
// ever walk into the body), so the bodies only need to parse.
const Source = `
func insert[T](l: List[T], e: T, i: int) -> List[T] = null;
func remove[T](l: List[T], i: int) -> List[T] = null;
func replace[T](l: List[T], e: T, i: int) -> List[T] = null;
func pushFront[T](l: List[T], e: T) -> List[T] = null;
func pushBack[T](l: List[T], e: T) -> List[T] = null;
func insertInPlace[T](l: List[T], e: T, i: int) -> List[T] = null;
func removeInPlace[T](l: List[T], i: int) -> List[T] = null;
func replaceInPlace[T](l: List[T], e: T, i: int) -> List[T] = null;
func pushFrontInPlace[T](l: List[T], e: T) -> List[T] = null;
func pushBackInPlace[T](l: List[T], e: T) -> List[T] = null;
func front[T](l: List[T]) -> T = null;
func back[T](l: List[T]) -> T = null;
func head[T](l: List[T]) -> List[T] = null;
func tail[T](l: List[T]) -> List[T] = null;
func combine[T](l1: List[T], l2: List[T]) -> List[T] = null;
func append[T](l1: List[T], l2: List[T]) -> List[T] = null;
func size[T](l: List[T]) -> int = null;
func range[T](l: List[T], s: int, e: int) -> List[T] = null;
func isEmpty[T](l: List[T]) -> bool = null;
func printList[T](l: List[T]) -> null = null;
func reverse[T](l: List[T]) -> List[T] = null;
func contains[T](l: List[T], e: T) -> bool = null;
func find[T](l: List[T], e: T) -> int = null;
func equals[T](l1: List[T], l2: List[T]) -> bool = null;

func print2Tuple[A, B](t: Tuple[A, B]) -> null = null;
func print3Tuple[A, B, C](t: Tuple[A, B, C]) -> null = null;
func print4Tuple[A, B, C, D](t: Tuple[A, B, C, D]) -> null = null;

func intToChar(i: int) -> char = null;
func charToInt(c: char) -> int = null;
func stringToCharList(s: string) -> List[char] = null;
func charListToString(l: List[char]) -> string = null;

func printInt(i: int) -> null = null;
func printBool(b: bool) -> null = null;
func printChar(c: char) -> null = null;
func printString(s: string) -> null = null;
func readChar() -> char = null;
func readString() -> string = null;

func halt() -> null = null;
`
